package repository

import (
	"context"
	"encoding/json"

	"secretroom/internal/domain/entity"
	"secretroom/internal/domain/repository"
	"secretroom/pkg/errors"
)

// userNode is the value stored at /{safeEmail}. CreateChat rewrites the
// whole node, so the chats list rides along with the name fields.
type userNode struct {
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Chats     []entity.Chat `json:"chats,omitempty"`
}

type rtdbUserRepository struct {
	db repository.Database
}

func NewRTDBUserRepository(db repository.Database) repository.UserRepository {
	return &rtdbUserRepository{
		db: db,
	}
}

// Exists reports presence of any value at the user's path; it does not
// validate the node's content.
func (r *rtdbUserRepository) Exists(ctx context.Context, email string) (bool, error) {
	var raw json.RawMessage
	if err := r.db.Get(ctx, entity.SafeEmail(email), &raw); err != nil {
		return false, errors.FailedToFetch(err)
	}
	return !absent(raw), nil
}

// Create writes the user's name fields, then appends an entry to the global
// /appUsers index. Two sequential round trips; the index append has no
// uniqueness check, so concurrent signups can duplicate entries.
func (r *rtdbUserRepository) Create(ctx context.Context, user *entity.User) error {
	node := userNode{
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if err := r.db.Set(ctx, user.SafeEmail(), node); err != nil {
		return errors.FailedToFetch(err)
	}

	var appUsers []entity.AppUser
	if err := r.db.Get(ctx, "appUsers", &appUsers); err != nil {
		return errors.FailedToFetch(err)
	}
	appUsers = append(appUsers, entity.AppUser{
		Name:      user.Name(),
		SafeEmail: user.SafeEmail(),
	})
	if err := r.db.Set(ctx, "appUsers", appUsers); err != nil {
		return errors.FailedToFetch(err)
	}
	return nil
}

func (r *rtdbUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var node userNode
	if err := r.db.Get(ctx, entity.SafeEmail(email), &node); err != nil {
		return nil, errors.FailedToFetch(err)
	}
	if node.FirstName == "" && node.LastName == "" {
		return nil, errors.FailedToFetch(nil)
	}
	return &entity.User{
		Email:     email,
		FirstName: node.FirstName,
		LastName:  node.LastName,
	}, nil
}

// ListAppUsers reads the whole index in one round trip. An absent index node
// fails; a present empty array returns an empty list.
func (r *rtdbUserRepository) ListAppUsers(ctx context.Context) ([]entity.AppUser, error) {
	var raw json.RawMessage
	if err := r.db.Get(ctx, "appUsers", &raw); err != nil {
		return nil, errors.FailedToFetch(err)
	}
	if absent(raw) {
		return nil, errors.FailedToFetch(nil)
	}
	var appUsers []entity.AppUser
	if err := json.Unmarshal(raw, &appUsers); err != nil {
		return nil, errors.FailedToFetch(err)
	}
	return appUsers, nil
}

func absent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
