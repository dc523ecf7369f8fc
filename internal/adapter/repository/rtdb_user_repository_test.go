package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secretroom/internal/domain/entity"
	"secretroom/internal/mocks"
	apperrors "secretroom/pkg/errors"
)

func TestCreateAndExists(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	repo := NewRTDBUserRepository(db)

	exists, err := repo.Exists(ctx, "alice.smith@mail.com")
	require.NoError(t, err)
	assert.False(t, exists)

	user := &entity.User{Email: "alice.smith@mail.com", FirstName: "Alice", LastName: "Smith"}
	require.NoError(t, repo.Create(ctx, user))

	exists, err = repo.Exists(ctx, "alice.smith@mail.com")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.GetByEmail(ctx, "alice.smith@mail.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FirstName)
	assert.Equal(t, "Smith", got.LastName)
	assert.Equal(t, "alice-smith@mail-com", got.SafeEmail())
}

func TestCreateAppendsToIndexWithoutDeduplication(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	repo := NewRTDBUserRepository(db)

	user := &entity.User{Email: "alice@mail.com", FirstName: "Alice", LastName: "Smith"}
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.Create(ctx, user))

	// The index append has no uniqueness check; a repeated signup lands twice.
	appUsers, err := repo.ListAppUsers(ctx)
	require.NoError(t, err)
	require.Len(t, appUsers, 2)
	assert.Equal(t, appUsers[0], appUsers[1])
	assert.Equal(t, "Alice Smith", appUsers[0].Name)
	assert.Equal(t, "alice@mail-com", appUsers[0].SafeEmail)
}

func TestListAppUsersAbsentIndexFails(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	repo := NewRTDBUserRepository(db)

	_, err := repo.ListAppUsers(ctx)
	assert.True(t, apperrors.Is(err, "FAILED_TO_FETCH"))
}

func TestListAppUsersEmptyIndexSucceeds(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	repo := NewRTDBUserRepository(db)

	// An index node that exists but holds an empty array is a valid, empty
	// directory, unlike a missing node.
	require.NoError(t, db.Set(ctx, "appUsers", []entity.AppUser{}))

	appUsers, err := repo.ListAppUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, appUsers)
}

func TestGetByEmailUnknownUserFails(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewDatabase()
	repo := NewRTDBUserRepository(db)

	_, err := repo.GetByEmail(ctx, "ghost@mail.com")
	assert.True(t, apperrors.Is(err, "FAILED_TO_FETCH"))
}
