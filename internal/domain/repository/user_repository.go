package repository

import (
	"context"

	"secretroom/internal/domain/entity"
)

type UserRepository interface {
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListAppUsers(ctx context.Context) ([]entity.AppUser, error)
}
