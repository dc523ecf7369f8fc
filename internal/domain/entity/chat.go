package entity

// Companion is the other party of a chat as seen from one participant.
type Companion struct {
	Name      string `json:"name"`
	SafeEmail string `json:"safeEmail"`
}

type LastMessage struct {
	SentDate string `json:"sent_date"`
	Text     string `json:"message"`
	IsRead   bool   `json:"is_read"`
}

// Chat is one participant's denormalized summary of a conversation, stored
// in that participant's own chats list. The other participant holds a second
// copy under their record; both copies share the same ID and are expected to
// agree on LastMessage, though nothing in the store enforces that.
type Chat struct {
	ID          string       `json:"id"`
	Companion   *Companion   `json:"companion"`
	LastMessage *LastMessage `json:"last_message"`
}

// ChatID derives the shared chat identifier. It is computed once by the
// creator and stored verbatim in both participants' summaries, so lookups
// from either side resolve to the same id.
func ChatID(creatorSafeEmail, companionSafeEmail string) string {
	return "chat_" + creatorSafeEmail + "_" + companionSafeEmail
}

// Validate reports the first required field missing from a decoded summary,
// or "" if the record is complete.
func (c Chat) Validate() string {
	switch {
	case c.ID == "":
		return "id"
	case c.Companion == nil:
		return "companion"
	case c.Companion.Name == "":
		return "companion.name"
	case c.Companion.SafeEmail == "":
		return "companion.safeEmail"
	case c.LastMessage == nil:
		return "last_message"
	case c.LastMessage.SentDate == "":
		return "last_message.sent_date"
	}
	return ""
}
