package entity

// Session identifies the authenticated caller for the duration of one
// request. The auth middleware builds it from a verified ID token and hands
// it down explicitly; there is no process-wide current-user state.
type Session struct {
	Email     string
	SafeEmail string
	Name      string
}
