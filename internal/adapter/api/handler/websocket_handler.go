package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"secretroom/internal/domain/entity"
	"secretroom/internal/domain/repository"
	ws "secretroom/internal/infrastructure/websocket"
	"secretroom/internal/usecase"
	"secretroom/pkg/logger"
)

type WebSocketHandler struct {
	manager     *ws.Manager
	chatUseCase *usecase.ChatUseCase
	upgrader    websocket.Upgrader
}

func NewWebSocketHandler(manager *ws.Manager, chatUseCase *usecase.ChatUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		manager:     manager,
		chatUseCase: chatUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

type chatListEvent struct {
	Type  string        `json:"type"`
	Chats []entity.Chat `json:"chats,omitempty"`
	Error string        `json:"error,omitempty"`
}

// HandleConnection upgrades the request, registers the client and streams
// chat-list snapshots at it until the peer disconnects. Message events are
// fanned out separately by the chat usecase through the same connection.
func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	sess := c.Get("session").(entity.Session)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := ws.NewClient(sess.SafeEmail, conn)
	h.manager.Register <- client

	// Outlives the request context: the connection is hijacked and stays
	// open after this handler's request is done being served.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := h.chatUseCase.WatchChats(ctx, sess)
	if err != nil {
		logger.Warn("chat watch for %s failed: %v", sess.SafeEmail, err)
	} else {
		go h.forwardChatEvents(client, events)
	}

	go client.WritePump()
	client.ReadPump(h.manager)
	return nil
}

func (h *WebSocketHandler) forwardChatEvents(client *ws.Client, events <-chan repository.ChatsEvent) {
	for event := range events {
		payload := chatListEvent{Type: "chats", Chats: event.Chats}
		if event.Err != nil {
			payload.Error = event.Err.Error()
		}
		data, err := json.Marshal(payload)
		if err != nil {
			logger.Error("marshal chat list event: %v", err)
			continue
		}
		if !client.TrySend(data) {
			logger.Warn("dropping chat list snapshot for %s: client unavailable", client.SafeEmail)
		}
	}
}
