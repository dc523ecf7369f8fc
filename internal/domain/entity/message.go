package entity

import (
	"fmt"
	"time"
)

// SentDateLayout mirrors the long date/time style the mobile clients used.
// The formatted string is what gets stored and is re-parsed on read, so the
// format/parse pair must round-trip.
const SentDateLayout = "January 2, 2006 at 3:04:05 PM MST"

// MessageKind is a closed set of content kinds. Only KindText persists its
// content; every rich kind serializes with an empty body.
type MessageKind string

const (
	KindText           MessageKind = "text"
	KindAttributedText MessageKind = "attributed_text"
	KindPhoto          MessageKind = "photo"
	KindVideo          MessageKind = "video"
	KindLocation       MessageKind = "location"
	KindEmoji          MessageKind = "emoji"
	KindAudio          MessageKind = "audio"
	KindContact        MessageKind = "contact"
	KindLinkPreview    MessageKind = "link_preview"
	KindCustom         MessageKind = "custom"
)

func (k MessageKind) Valid() bool {
	switch k {
	case KindText, KindAttributedText, KindPhoto, KindVideo, KindLocation,
		KindEmoji, KindAudio, KindContact, KindLinkPreview, KindCustom:
		return true
	}
	return false
}

// PersistedContent is the serialization rule per kind: text carries its
// body, everything else collapses to empty.
func PersistedContent(kind MessageKind, content string) string {
	if kind == KindText {
		return content
	}
	return ""
}

// Message is a single record of the append-only list under {chatID}/messages.
type Message struct {
	ID          string      `json:"id"`
	Kind        MessageKind `json:"type"`
	Content     string      `json:"content"`
	SentDate    string      `json:"sent_date"`
	SenderEmail string      `json:"sender_email"`
	SenderName  string      `json:"sender_name"`
	IsRead      bool        `json:"is_read"`
}

// MessageID joins the companion's safe email, the sender's safe email and
// the formatted send time. The formatted time has second resolution, so two
// messages between the same pair within the same second share an id; records
// already written use this scheme, so it stays unchanged.
func MessageID(companionSafeEmail, senderSafeEmail string, sentAt time.Time) string {
	return fmt.Sprintf("%s_%s_%s", companionSafeEmail, senderSafeEmail, sentAt.Format(SentDateLayout))
}

func FormatSentDate(t time.Time) string {
	return t.Format(SentDateLayout)
}

func ParseSentDate(s string) (time.Time, error) {
	return time.Parse(SentDateLayout, s)
}

// Validate reports the first required field missing from a decoded message,
// or "" if the record is complete. A sent_date that fails to parse back
// counts as missing.
func (m Message) Validate() string {
	switch {
	case m.ID == "":
		return "id"
	case m.Kind == "":
		return "type"
	case m.SentDate == "":
		return "sent_date"
	case m.SenderEmail == "":
		return "sender_email"
	case m.SenderName == "":
		return "sender_name"
	}
	if _, err := ParseSentDate(m.SentDate); err != nil {
		return "sent_date"
	}
	return ""
}
