package usecase

import (
	"context"

	"secretroom/internal/domain/entity"
	"secretroom/internal/domain/repository"
	"secretroom/pkg/errors"
	"secretroom/pkg/logger"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthResult struct {
	User  *entity.User
	Token string
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	exists, err := uc.userRepo.Exists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("Email already in use")
	}

	user := &entity.User{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}

	if _, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, user.Name()); err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// The auth account exists at this point with no database record;
		// the next signup attempt for this email will fail at the provider.
		return nil, errors.Internal("Failed to create user record", err)
	}

	token, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, input.Email, input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, email, password)
	if err != nil {
		logger.Warn("login failed for %s: %v", entity.SafeEmail(email), err)
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, idToken string) error {
	uid, err := uc.firebaseAuth.VerifyToken(ctx, idToken)
	if err != nil {
		return errors.Unauthorized("Invalid token", err)
	}
	if err := uc.firebaseAuth.SignOut(ctx, uid); err != nil {
		return errors.Internal("Failed to sign out", err)
	}
	return nil
}

// Session verifies an ID token and resolves the caller's identity from the
// database. This is the only way a request acquires a current user.
func (uc *AuthUseCase) Session(ctx context.Context, idToken string) (entity.Session, error) {
	email, err := uc.firebaseAuth.VerifySession(ctx, idToken)
	if err != nil {
		return entity.Session{}, errors.Unauthorized("Invalid or expired token", err)
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return entity.Session{}, errors.Unauthorized("Unknown user", err)
	}

	return entity.Session{
		Email:     email,
		SafeEmail: user.SafeEmail(),
		Name:      user.Name(),
	}, nil
}
