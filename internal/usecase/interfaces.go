package usecase

import (
	"context"
	"io"
)

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	VerifySession(ctx context.Context, idToken string) (string, error)
	SignInWithEmailPassword(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context, uid string) error
}

type StorageClient interface {
	UploadProfilePicture(ctx context.Context, file io.Reader, fileName string) (string, error)
	DownloadURL(ctx context.Context, path string) (string, error)
}
