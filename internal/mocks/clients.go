package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"secretroom/internal/usecase"
)

type FirebaseAuthClientMock struct {
	mock.Mock
}

var _ usecase.FirebaseAuthClient = (*FirebaseAuthClientMock)(nil)

func (m *FirebaseAuthClientMock) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	args := m.Called(ctx, email, password, displayName)
	return args.String(0), args.Error(1)
}

func (m *FirebaseAuthClientMock) VerifyToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *FirebaseAuthClientMock) VerifySession(ctx context.Context, idToken string) (string, error) {
	args := m.Called(ctx, idToken)
	return args.String(0), args.Error(1)
}

func (m *FirebaseAuthClientMock) SignInWithEmailPassword(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *FirebaseAuthClientMock) SignOut(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

type StorageClientMock struct {
	mock.Mock
}

var _ usecase.StorageClient = (*StorageClientMock)(nil)

func (m *StorageClientMock) UploadProfilePicture(ctx context.Context, file io.Reader, fileName string) (string, error) {
	args := m.Called(ctx, file, fileName)
	return args.String(0), args.Error(1)
}

func (m *StorageClientMock) DownloadURL(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}
