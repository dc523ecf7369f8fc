package usecase

import (
	"context"
	"encoding/json"
	"time"

	"secretroom/internal/domain/entity"
	"secretroom/internal/domain/repository"
	"secretroom/internal/infrastructure/ratelimit"
	ws "secretroom/internal/infrastructure/websocket"
	"secretroom/pkg/errors"
	"secretroom/pkg/logger"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	wsManager *ws.Manager,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type CreateChatInput struct {
	CompanionEmail string
	CompanionName  string
	FirstMessage   string
	Kind           entity.MessageKind
}

type SendMessageInput struct {
	ChatID         string
	CompanionEmail string
	CompanionName  string
	Content        string
	Kind           entity.MessageKind
}

// wsEvent is the envelope pushed to connected clients.
type wsEvent struct {
	Type    string          `json:"type"`
	ChatID  string          `json:"chat_id,omitempty"`
	Message *entity.Message `json:"message,omitempty"`
}

func (uc *ChatUseCase) CreateChat(ctx context.Context, sess entity.Session, input CreateChatInput) (*entity.Chat, error) {
	if !uc.rateLimiter.Allow(sess.SafeEmail, "create_chat") {
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before creating another chat")
	}

	companionSafeEmail := entity.SafeEmail(input.CompanionEmail)
	if companionSafeEmail == sess.SafeEmail {
		return nil, errors.BadRequest("You cannot create a chat with yourself", nil)
	}

	exists, err := uc.userRepo.Exists(ctx, input.CompanionEmail)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NotFound("Companion", nil)
	}

	companion := entity.Companion{
		Name:      input.CompanionName,
		SafeEmail: companionSafeEmail,
	}
	first := uc.buildMessage(sess, companionSafeEmail, input.Kind, input.FirstMessage)

	chatID, err := uc.chatRepo.CreateChat(ctx, sess, companion, first)
	if err != nil {
		return nil, err
	}

	chat := &entity.Chat{
		ID:        chatID,
		Companion: &companion,
		LastMessage: &entity.LastMessage{
			SentDate: first.SentDate,
			Text:     first.Content,
			IsRead:   false,
		},
	}

	uc.push(companionSafeEmail, wsEvent{Type: "chat_created", ChatID: chatID, Message: &first})
	return chat, nil
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, sess entity.Session, input SendMessageInput) (*entity.Message, error) {
	if !uc.rateLimiter.Allow(sess.SafeEmail, "send_message") {
		return nil, errors.TooManyRequests("Rate limit exceeded. Please slow down")
	}

	if err := uc.requireMember(ctx, sess, input.ChatID); err != nil {
		return nil, err
	}

	companionSafeEmail := entity.SafeEmail(input.CompanionEmail)
	companion := entity.Companion{
		Name:      input.CompanionName,
		SafeEmail: companionSafeEmail,
	}
	msg := uc.buildMessage(sess, companionSafeEmail, input.Kind, input.Content)

	if err := uc.chatRepo.AppendMessage(ctx, input.ChatID, sess, companion, msg); err != nil {
		return nil, err
	}

	event := wsEvent{Type: "message", ChatID: input.ChatID, Message: &msg}
	uc.push(companionSafeEmail, event)
	// The sender's other devices want the echo too.
	uc.push(sess.SafeEmail, event)

	return &msg, nil
}

func (uc *ChatUseCase) GetUserChats(ctx context.Context, sess entity.Session) ([]entity.Chat, error) {
	return uc.chatRepo.ListChats(ctx, sess.SafeEmail)
}

func (uc *ChatUseCase) WatchChats(ctx context.Context, sess entity.Session) (<-chan repository.ChatsEvent, error) {
	return uc.chatRepo.WatchChats(ctx, sess.SafeEmail)
}

func (uc *ChatUseCase) GetChatMessages(ctx context.Context, sess entity.Session, chatID string) ([]entity.Message, error) {
	if err := uc.requireMember(ctx, sess, chatID); err != nil {
		return nil, err
	}
	return uc.chatRepo.ListMessages(ctx, chatID)
}

func (uc *ChatUseCase) WatchMessages(ctx context.Context, sess entity.Session, chatID string) (<-chan repository.MessagesEvent, error) {
	if err := uc.requireMember(ctx, sess, chatID); err != nil {
		return nil, err
	}
	return uc.chatRepo.WatchMessages(ctx, chatID)
}

func (uc *ChatUseCase) DeleteChat(ctx context.Context, sess entity.Session, chatID, companionEmail string) error {
	if err := uc.requireMember(ctx, sess, chatID); err != nil {
		return err
	}

	companionSafeEmail := entity.SafeEmail(companionEmail)
	if err := uc.chatRepo.DeleteChat(ctx, chatID, sess.SafeEmail, companionSafeEmail); err != nil {
		return err
	}

	uc.push(companionSafeEmail, wsEvent{Type: "chat_deleted", ChatID: chatID})
	return nil
}

func (uc *ChatUseCase) buildMessage(sess entity.Session, companionSafeEmail string, kind entity.MessageKind, content string) entity.Message {
	if kind == "" {
		kind = entity.KindText
	}
	now := time.Now()
	return entity.Message{
		ID:          entity.MessageID(companionSafeEmail, sess.SafeEmail, now),
		Kind:        kind,
		Content:     entity.PersistedContent(kind, content),
		SentDate:    entity.FormatSentDate(now),
		SenderEmail: sess.SafeEmail,
		SenderName:  sess.Name,
		IsRead:      false,
	}
}

// requireMember checks the chat appears in the caller's own chat list.
func (uc *ChatUseCase) requireMember(ctx context.Context, sess entity.Session, chatID string) error {
	chats, err := uc.chatRepo.ListChats(ctx, sess.SafeEmail)
	if err != nil {
		return err
	}
	for _, chat := range chats {
		if chat.ID == chatID {
			return nil
		}
	}
	return errors.Forbidden("You are not a participant of this chat", nil)
}

func (uc *ChatUseCase) push(safeEmail string, event wsEvent) {
	if uc.wsManager == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("marshal ws event: %v", err)
		return
	}
	uc.wsManager.SendToUser(safeEmail, payload)
}
