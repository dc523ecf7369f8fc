package repository

import (
	"context"

	"secretroom/internal/domain/entity"
)

// ChatsEvent is one delivery from a chat-list subscription.
type ChatsEvent struct {
	Chats []entity.Chat
	Err   error
}

// MessagesEvent is one delivery from a message-list subscription.
type MessagesEvent struct {
	Messages []entity.Message
	Err      error
}

type ChatRepository interface {
	CreateChat(ctx context.Context, sess entity.Session, companion entity.Companion, first entity.Message) (string, error)
	AppendMessage(ctx context.Context, chatID string, sess entity.Session, companion entity.Companion, msg entity.Message) error
	UpdateLastMessage(ctx context.Context, chatID, ownerSafeEmail, companionSafeEmail string, last entity.LastMessage) error
	ListChats(ctx context.Context, safeEmail string) ([]entity.Chat, error)
	WatchChats(ctx context.Context, safeEmail string) (<-chan ChatsEvent, error)
	ListMessages(ctx context.Context, chatID string) ([]entity.Message, error)
	WatchMessages(ctx context.Context, chatID string) (<-chan MessagesEvent, error)
	DeleteChat(ctx context.Context, chatID, ownerSafeEmail, companionSafeEmail string) error
}
