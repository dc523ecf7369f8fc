package repository

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"secretroom/internal/domain/entity"
	"secretroom/internal/domain/repository"
	"secretroom/pkg/errors"
	"secretroom/pkg/logger"
)

// chatNode is the value stored at /{chatID}.
type chatNode struct {
	Messages []entity.Message `json:"messages"`
}

type rtdbChatRepository struct {
	db repository.Database
}

func NewRTDBChatRepository(db repository.Database) repository.ChatRepository {
	return &rtdbChatRepository{
		db: db,
	}
}

// CreateChat writes the two denormalized summary copies and the message node
// for a new chat. The three writes are independent: there is no transaction
// spanning them and no rollback if a later one fails after an earlier one
// succeeded.
func (r *rtdbChatRepository) CreateChat(ctx context.Context, sess entity.Session, companion entity.Companion, first entity.Message) (string, error) {
	var node userNode
	if err := r.db.Get(ctx, sess.SafeEmail, &node); err != nil {
		return "", errors.FailedToFetch(err)
	}
	if node.FirstName == "" && node.LastName == "" {
		return "", errors.FailedToFetch(nil)
	}

	chatID := entity.ChatID(sess.SafeEmail, companion.SafeEmail)
	last := entity.LastMessage{
		SentDate: first.SentDate,
		Text:     first.Content,
		IsRead:   false,
	}

	// The companion's copy names the current user as its companion, and vice
	// versa; both carry the same id and last message.
	companionCopy := entity.Chat{
		ID:          chatID,
		Companion:   &entity.Companion{Name: sess.Name, SafeEmail: sess.SafeEmail},
		LastMessage: &last,
	}
	ownCopy := entity.Chat{
		ID:          chatID,
		Companion:   &entity.Companion{Name: companion.Name, SafeEmail: companion.SafeEmail},
		LastMessage: &last,
	}

	var companionChats []entity.Chat
	if err := r.db.Get(ctx, companion.SafeEmail+"/chats", &companionChats); err != nil {
		return "", errors.FailedToFetch(err)
	}
	companionChats = append(companionChats, companionCopy)
	if err := r.db.Set(ctx, companion.SafeEmail+"/chats", companionChats); err != nil {
		return "", errors.FailedToFetch(err)
	}

	// The creator's side rewrites the whole user node, chats included.
	node.Chats = append(node.Chats, ownCopy)
	if err := r.db.Set(ctx, sess.SafeEmail, node); err != nil {
		return "", errors.FailedToFetch(err)
	}

	if err := r.db.Set(ctx, chatID, chatNode{Messages: []entity.Message{first}}); err != nil {
		return "", errors.FailedToFetch(err)
	}
	return chatID, nil
}

// AppendMessage appends to the chat's message list with a full-list
// read-modify-write, then bumps the last-message summary of both
// participants. Concurrent senders can overwrite each other's append.
func (r *rtdbChatRepository) AppendMessage(ctx context.Context, chatID string, sess entity.Session, companion entity.Companion, msg entity.Message) error {
	path := chatID + "/messages"
	var messages []entity.Message
	if err := r.db.Get(ctx, path, &messages); err != nil {
		return errors.FailedToFetch(err)
	}
	if messages == nil {
		return errors.FailedToFetch(nil)
	}
	messages = append(messages, msg)
	if err := r.db.Set(ctx, path, messages); err != nil {
		return errors.FailedToFetch(err)
	}

	last := entity.LastMessage{
		SentDate: msg.SentDate,
		Text:     msg.Content,
		IsRead:   false,
	}
	if err := r.UpdateLastMessage(ctx, chatID, sess.SafeEmail, companion.SafeEmail, last); err != nil {
		// The message itself is stored; a summary copy that failed to update
		// is left divergent and is not repaired.
		logger.Warn("last message update for chat %s incomplete: %v", chatID, err)
	}
	return nil
}

// UpdateLastMessage rewrites each participant's chat list so the affected
// chat carries the new last message and sits at index 0. The two sides run
// concurrently with no shared transaction; one side can succeed while the
// other fails.
func (r *rtdbChatRepository) UpdateLastMessage(ctx context.Context, chatID, ownerSafeEmail, companionSafeEmail string, last entity.LastMessage) error {
	var g errgroup.Group
	for _, safeEmail := range []string{ownerSafeEmail, companionSafeEmail} {
		safeEmail := safeEmail
		g.Go(func() error {
			return r.bumpChat(ctx, safeEmail, chatID, last)
		})
	}
	return g.Wait()
}

func (r *rtdbChatRepository) bumpChat(ctx context.Context, safeEmail, chatID string, last entity.LastMessage) error {
	path := safeEmail + "/chats"
	var chats []entity.Chat
	if err := r.db.Get(ctx, path, &chats); err != nil {
		return errors.FailedToFetch(err)
	}
	if chats == nil {
		return errors.FailedToFetch(nil)
	}

	found := false
	for i := range chats {
		if chats[i].ID != chatID {
			continue
		}
		updated := chats[i]
		updated.LastMessage = &last
		chats = append(chats[:i], chats[i+1:]...)
		chats = append([]entity.Chat{updated}, chats...)
		found = true
		break
	}
	if !found {
		return nil
	}

	if err := r.db.Set(ctx, path, chats); err != nil {
		return errors.FailedToFetch(err)
	}
	return nil
}

func (r *rtdbChatRepository) ListChats(ctx context.Context, safeEmail string) ([]entity.Chat, error) {
	var raw json.RawMessage
	if err := r.db.Get(ctx, safeEmail+"/chats", &raw); err != nil {
		return nil, errors.FailedToFetch(err)
	}
	return decodeChats(raw)
}

func (r *rtdbChatRepository) WatchChats(ctx context.Context, safeEmail string) (<-chan repository.ChatsEvent, error) {
	snapshots, err := r.db.Watch(ctx, safeEmail+"/chats")
	if err != nil {
		return nil, errors.FailedToFetch(err)
	}
	events := make(chan repository.ChatsEvent)
	go func() {
		defer close(events)
		for raw := range snapshots {
			chats, err := decodeChats(raw)
			select {
			case events <- repository.ChatsEvent{Chats: chats, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func (r *rtdbChatRepository) ListMessages(ctx context.Context, chatID string) ([]entity.Message, error) {
	var raw json.RawMessage
	if err := r.db.Get(ctx, chatID+"/messages", &raw); err != nil {
		return nil, errors.FailedToFetch(err)
	}
	return decodeMessages(raw)
}

func (r *rtdbChatRepository) WatchMessages(ctx context.Context, chatID string) (<-chan repository.MessagesEvent, error) {
	snapshots, err := r.db.Watch(ctx, chatID+"/messages")
	if err != nil {
		return nil, errors.FailedToFetch(err)
	}
	events := make(chan repository.MessagesEvent)
	go func() {
		defer close(events)
		for raw := range snapshots {
			messages, err := decodeMessages(raw)
			select {
			case events <- repository.MessagesEvent{Messages: messages, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

// DeleteChat removes the summary from both participants' lists, then deletes
// the message node. Three independent operations; a failure partway leaves
// one side still listing the chat.
func (r *rtdbChatRepository) DeleteChat(ctx context.Context, chatID, ownerSafeEmail, companionSafeEmail string) error {
	if err := r.removeFromChatList(ctx, ownerSafeEmail, chatID); err != nil {
		return err
	}
	if err := r.removeFromChatList(ctx, companionSafeEmail, chatID); err != nil {
		return err
	}
	if err := r.db.Delete(ctx, chatID); err != nil {
		return errors.FailedToFetch(err)
	}
	return nil
}

func (r *rtdbChatRepository) removeFromChatList(ctx context.Context, safeEmail, chatID string) error {
	path := safeEmail + "/chats"
	var chats []entity.Chat
	if err := r.db.Get(ctx, path, &chats); err != nil {
		return errors.FailedToFetch(err)
	}
	if chats == nil {
		return errors.FailedToFetch(nil)
	}
	for i := range chats {
		if chats[i].ID == chatID {
			chats = append(chats[:i], chats[i+1:]...)
			break
		}
	}
	if err := r.db.Set(ctx, path, chats); err != nil {
		return errors.FailedToFetch(err)
	}
	return nil
}

// decodeChats turns a raw chat-list snapshot into summaries. An absent node
// or one that is not an array fails as a whole; an entry missing a required
// field is dropped, not failed.
func decodeChats(raw json.RawMessage) ([]entity.Chat, error) {
	if absent(raw) {
		return nil, errors.FailedToFetch(nil)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.FailedToFetch(err)
	}
	chats := make([]entity.Chat, 0, len(records))
	for i, record := range records {
		var chat entity.Chat
		if err := json.Unmarshal(record, &chat); err != nil {
			logger.Warn("dropping malformed chat entry %d: %v", i, err)
			continue
		}
		if field := chat.Validate(); field != "" {
			logger.Warn("dropping chat entry %d: missing %s", i, field)
			continue
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func decodeMessages(raw json.RawMessage) ([]entity.Message, error) {
	if absent(raw) {
		return nil, errors.FailedToFetch(nil)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.FailedToFetch(err)
	}
	messages := make([]entity.Message, 0, len(records))
	for i, record := range records {
		var message entity.Message
		if err := json.Unmarshal(record, &message); err != nil {
			logger.Warn("dropping malformed message %d: %v", i, err)
			continue
		}
		if field := message.Validate(); field != "" {
			logger.Warn("dropping message %d: missing %s", i, field)
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}
