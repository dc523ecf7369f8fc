package usecase

import (
	"context"
	"io"
	"strings"

	"secretroom/internal/domain/entity"
	"secretroom/internal/domain/repository"
	"secretroom/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	storage  StorageClient
}

func NewUserUseCase(userRepo repository.UserRepository, storage StorageClient) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		storage:  storage,
	}
}

func (uc *UserUseCase) ListAppUsers(ctx context.Context) ([]entity.AppUser, error) {
	return uc.userRepo.ListAppUsers(ctx)
}

// SearchAppUsers filters the index by case-insensitive name prefix. The
// whole index is fetched each time; it is the only query shape the flat
// /appUsers node supports.
func (uc *UserUseCase) SearchAppUsers(ctx context.Context, term string) ([]entity.AppUser, error) {
	appUsers, err := uc.userRepo.ListAppUsers(ctx)
	if err != nil {
		return nil, err
	}

	prefix := strings.ToLower(term)
	matches := make([]entity.AppUser, 0)
	for _, appUser := range appUsers {
		if strings.HasPrefix(strings.ToLower(appUser.Name), prefix) {
			matches = append(matches, appUser)
		}
	}
	return matches, nil
}

func (uc *UserUseCase) GetUser(ctx context.Context, email string) (*entity.User, error) {
	return uc.userRepo.GetByEmail(ctx, email)
}

func (uc *UserUseCase) UploadProfilePicture(ctx context.Context, sess entity.Session, file io.Reader) (string, error) {
	fileName := sess.SafeEmail + "_profile_picture.png"
	url, err := uc.storage.UploadProfilePicture(ctx, file, fileName)
	if err != nil {
		return "", errors.UploadFailed(err)
	}
	return url, nil
}

func (uc *UserUseCase) ProfilePictureURL(ctx context.Context, email string) (string, error) {
	path := "images/" + entity.SafeEmail(email) + "_profile_picture.png"
	url, err := uc.storage.DownloadURL(ctx, path)
	if err != nil {
		return "", errors.DownloadURLFailed(err)
	}
	return url, nil
}
