package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentDateRoundTrip(t *testing.T) {
	sent := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)

	formatted := FormatSentDate(sent)
	assert.Equal(t, "March 7, 2024 at 3:04:05 PM UTC", formatted)

	parsed, err := ParseSentDate(formatted)
	require.NoError(t, err)

	// Stored strings are re-formatted after a parse, so a second pass must
	// produce the identical string.
	assert.Equal(t, formatted, FormatSentDate(parsed))
	assert.True(t, parsed.Equal(sent))
}

func TestMessageIDSameSecondCollides(t *testing.T) {
	at := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)

	first := MessageID("bob@mail-com", "alice@mail-com", at)
	second := MessageID("bob@mail-com", "alice@mail-com", at.Add(400*time.Millisecond))
	later := MessageID("bob@mail-com", "alice@mail-com", at.Add(time.Second))

	assert.Equal(t, "bob@mail-com_alice@mail-com_March 7, 2024 at 3:04:05 PM UTC", first)
	// Sub-second sends share an id; only a full second apart differs.
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, later)
}

func TestPersistedContent(t *testing.T) {
	assert.Equal(t, "hello", PersistedContent(KindText, "hello"))

	for _, kind := range []MessageKind{
		KindAttributedText, KindPhoto, KindVideo, KindLocation,
		KindEmoji, KindAudio, KindContact, KindLinkPreview, KindCustom,
	} {
		assert.Empty(t, PersistedContent(kind, "payload"), "kind %s", kind)
	}
}

func TestMessageKindValid(t *testing.T) {
	assert.True(t, KindText.Valid())
	assert.True(t, KindLinkPreview.Valid())
	assert.False(t, MessageKind("sticker").Valid())
	assert.False(t, MessageKind("").Valid())
}

func TestMessageValidate(t *testing.T) {
	valid := Message{
		ID:          "bob_alice_March 7, 2024 at 3:04:05 PM UTC",
		Kind:        KindText,
		Content:     "hello",
		SentDate:    "March 7, 2024 at 3:04:05 PM UTC",
		SenderEmail: "alice@mail-com",
		SenderName:  "Alice Smith",
	}
	assert.Empty(t, valid.Validate())

	missingID := valid
	missingID.ID = ""
	assert.Equal(t, "id", missingID.Validate())

	missingSender := valid
	missingSender.SenderEmail = ""
	assert.Equal(t, "sender_email", missingSender.Validate())

	badDate := valid
	badDate.SentDate = "yesterday"
	assert.Equal(t, "sent_date", badDate.Validate())

	// Empty content is legal: every non-text kind persists an empty body.
	emptyBody := valid
	emptyBody.Kind = KindPhoto
	emptyBody.Content = ""
	assert.Empty(t, emptyBody.Validate())
}
