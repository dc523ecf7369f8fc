package entity

import "strings"

// SafeEmail rewrites an email address into a database path-safe identifier.
// Realtime Database path segments cannot contain ".".
func SafeEmail(email string) string {
	return strings.ReplaceAll(email, ".", "-")
}

type User struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (u User) Name() string {
	return u.FirstName + " " + u.LastName
}

func (u User) SafeEmail() string {
	return SafeEmail(u.Email)
}

func (u User) ProfilePictureFileName() string {
	return u.SafeEmail() + "_profile_picture.png"
}

// AppUser is one entry of the flat /appUsers index used for partner search.
// The index is append-only and carries no uniqueness guarantee.
type AppUser struct {
	Name      string `json:"name"`
	SafeEmail string `json:"safeEmail"`
}
