package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"secretroom/internal/domain/entity"
	"secretroom/internal/domain/repository"
	ws "secretroom/internal/infrastructure/websocket"
)

// A chat-list snapshot can arrive after the peer already disconnected and
// the manager severed the client. The forwarder must drop it, not crash.
func TestForwardChatEventsAfterDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := ws.NewManager()
	manager.Start(ctx)

	client := ws.NewClient("alice@mail-com", nil)
	manager.Register <- client
	manager.Unregister <- client
	// The loop handles one request at a time; once this register is
	// accepted the unregister above has fully run.
	manager.Register <- ws.NewClient("sync@mail-com", nil)

	events := make(chan repository.ChatsEvent, 1)
	events <- repository.ChatsEvent{Chats: []entity.Chat{{
		ID:          "chat_alice@mail-com_bob@mail-com",
		Companion:   &entity.Companion{Name: "Bob Jones", SafeEmail: "bob@mail-com"},
		LastMessage: &entity.LastMessage{SentDate: "March 7, 2024 at 3:04:05 PM UTC", Text: "hi"},
	}}}
	close(events)

	h := &WebSocketHandler{manager: manager}
	require.NotPanics(t, func() {
		h.forwardChatEvents(client, events)
	})
}
