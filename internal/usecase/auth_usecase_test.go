package usecase_test

import (
	"context"
	"errors"
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

func TestRegister(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	userRepo := repository.NewRTDBUserRepository(db)

	firebaseAuth := new(mocks.FirebaseAuthClientMock)
	firebaseAuth.On("CreateUser", mock.Anything, "alice@mail.com", "s3cretpass", "Alice Smith").Return("uid-1", nil)
	firebaseAuth.On("SignInWithEmailPassword", mock.Anything, "alice@mail.com", "s3cretpass").Return("id-token", nil)

	uc := usecase.NewAuthUseCase(userRepo, firebaseAuth)

	result, err := uc.Register(ctx, usecase.RegisterInput{
		Email:     "alice@mail.com",
		Password:  "s3cretpass",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-token", result.Token)
	assert.Equal(t, "Alice Smith", result.User.Name())

	exists, err := userRepo.Exists(ctx, "alice@mail.com")
	require.NoError(t, err)
	assert.True(t, exists)

	firebaseAuth.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	userRepo := repository.NewRTDBUserRepository(db)
	require.NoError(t, userRepo.Create(ctx, &entity.User{Email: "alice@mail.com", FirstName: "Alice", LastName: "Smith"}))

	firebaseAuth := new(mocks.FirebaseAuthClientMock)
	uc := usecase.NewAuthUseCase(userRepo, firebaseAuth)

	_, err := uc.Register(ctx, usecase.RegisterInput{
		Email:     "alice@mail.com",
		Password:  "s3cretpass",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	assert.True(t, apperrors.Is(err, "CONFLICT"))
	firebaseAuth.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	userRepo := repository.NewRTDBUserRepository(db)
	require.NoError(t, userRepo.Create(ctx, &entity.User{Email: "alice@mail.com", FirstName: "Alice", LastName: "Smith"}))

	firebaseAuth := new(mocks.FirebaseAuthClientMock)
	firebaseAuth.On("SignInWithEmailPassword", mock.Anything, "alice@mail.com", "s3cretpass").Return("id-token", nil)

	uc := usecase.NewAuthUseCase(userRepo, firebaseAuth)

	result, err := uc.Login(ctx, "alice@mail.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "id-token", result.Token)
	assert.Equal(t, "Alice", result.User.FirstName)
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	userRepo := repository.NewRTDBUserRepository(db)

	firebaseAuth := new(mocks.FirebaseAuthClientMock)
	firebaseAuth.On("SignInWithEmailPassword", mock.Anything, "alice@mail.com", "wrong").Return("", errors.New("INVALID_PASSWORD"))

	uc := usecase.NewAuthUseCase(userRepo, firebaseAuth)

	_, err := uc.Login(ctx, "alice@mail.com", "wrong")
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	userRepo := repository.NewRTDBUserRepository(db)
	require.NoError(t, userRepo.Create(ctx, &entity.User{Email: "alice.smith@mail.com", FirstName: "Alice", LastName: "Smith"}))

	firebaseAuth := new(mocks.FirebaseAuthClientMock)
	firebaseAuth.On("VerifySession", mock.Anything, "id-token").Return("alice.smith@mail.com", nil)

	uc := usecase.NewAuthUseCase(userRepo, firebaseAuth)

	sess, err := uc.Session(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, "alice.smith@mail.com", sess.Email)
	assert.Equal(t, "alice-smith@mail-com", sess.SafeEmail)
	assert.Equal(t, "Alice Smith", sess.Name)
}

func TestSessionUnknownUser(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	userRepo := repository.NewRTDBUserRepository(db)

	firebaseAuth := new(mocks.FirebaseAuthClientMock)
	firebaseAuth.On("VerifySession", mock.Anything, "id-token").Return("ghost@mail.com", nil)

	uc := usecase.NewAuthUseCase(userRepo, firebaseAuth)

	_, err := uc.Session(ctx, "id-token")
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	userRepo := repository.NewRTDBUserRepository(db)

	firebaseAuth := new(mocks.FirebaseAuthClientMock)
	firebaseAuth.On("VerifyToken", mock.Anything, "id-token").Return("uid-1", nil)
	firebaseAuth.On("SignOut", mock.Anything, "uid-1").Return(nil)

	uc := usecase.NewAuthUseCase(userRepo, firebaseAuth)

	require.NoError(t, uc.Logout(ctx, "id-token"))
	firebaseAuth.AssertExpectations(t)
}
