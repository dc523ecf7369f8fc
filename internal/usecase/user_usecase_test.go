package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"secretroom/internal/adapter/repository"
	"secretroom/internal/domain/entity"
	"secretroom/internal/mocks"
	"secretroom/internal/usecase"
	apperrors "secretroom/pkg/errors"
)

func seedAppUsers(t *testing.T, db *mocks.Database) {
	t.Helper()
	userRepo := repository.NewRTDBUserRepository(db)
	for _, u := range []entity.User{
		{Email: "alice@mail.com", FirstName: "Alice", LastName: "Smith"},
		{Email: "bob@mail.com", FirstName: "Bob", LastName: "Jones"},
		{Email: "alina@mail.com", FirstName: "Alina", LastName: "Brown"},
	} {
		u := u
		require.NoError(t, userRepo.Create(context.Background(), &u))
	}
}

func TestSearchAppUsers(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	seedAppUsers(t, db)

	uc := usecase.NewUserUseCase(repository.NewRTDBUserRepository(db), nil)

	matches, err := uc.SearchAppUsers(ctx, "ali")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Alice Smith", matches[0].Name)
	assert.Equal(t, "Alina Brown", matches[1].Name)

	// The prefix match is case-insensitive.
	upper, err := uc.SearchAppUsers(ctx, "ALICE")
	require.NoError(t, err)
	require.Len(t, upper, 1)

	none, err := uc.SearchAppUsers(ctx, "zoe")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchAppUsersAbsentIndex(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()

	uc := usecase.NewUserUseCase(repository.NewRTDBUserRepository(db), nil)

	_, err := uc.SearchAppUsers(ctx, "ali")
	assert.True(t, apperrors.Is(err, "FAILED_TO_FETCH"))
}

func TestUploadProfilePicture(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()

	storage := new(mocks.StorageClientMock)
	storage.On("UploadProfilePicture", mock.Anything, mock.Anything, "alice@mail-com_profile_picture.png").
		Return("https://storage.googleapis.com/bucket/images/alice@mail-com_profile_picture.png", nil)

	uc := usecase.NewUserUseCase(repository.NewRTDBUserRepository(db), storage)
	sess := entity.Session{Email: "alice@mail.com", SafeEmail: "alice@mail-com", Name: "Alice Smith"}

	url, err := uc.UploadProfilePicture(ctx, sess, strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Contains(t, url, "alice@mail-com_profile_picture.png")
	storage.AssertExpectations(t)
}

func TestUploadProfilePictureFailure(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()

	storage := new(mocks.StorageClientMock)
	storage.On("UploadProfilePicture", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unavailable"))

	uc := usecase.NewUserUseCase(repository.NewRTDBUserRepository(db), storage)
	sess := entity.Session{Email: "alice@mail.com", SafeEmail: "alice@mail-com", Name: "Alice Smith"}

	_, err := uc.UploadProfilePicture(ctx, sess, strings.NewReader("png-bytes"))
	assert.True(t, apperrors.Is(err, "UPLOAD_FAILED"))
}

func TestProfilePictureURL(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()

	storage := new(mocks.StorageClientMock)
	storage.On("DownloadURL", mock.Anything, "images/bob@mail-com_profile_picture.png").
		Return("https://storage.googleapis.com/bucket/images/bob@mail-com_profile_picture.png", nil)

	uc := usecase.NewUserUseCase(repository.NewRTDBUserRepository(db), storage)

	url, err := uc.ProfilePictureURL(ctx, "bob@mail.com")
	require.NoError(t, err)
	assert.Contains(t, url, "bob@mail-com_profile_picture.png")
}

func TestProfilePictureURLFailure(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()

	storage := new(mocks.StorageClientMock)
	storage.On("DownloadURL", mock.Anything, mock.Anything).
		Return("", errors.New("object missing"))

	uc := usecase.NewUserUseCase(repository.NewRTDBUserRepository(db), storage)

	_, err := uc.ProfilePictureURL(ctx, "ghost@mail.com")
	assert.True(t, apperrors.Is(err, "DOWNLOAD_URL_FAILED"))
}
