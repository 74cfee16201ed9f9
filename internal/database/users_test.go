package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	user, err := testStore.CreateUser(ctx, CreateUserParams{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotZero(t, user.CreatedAt)

	_, err = testStore.CreateUser(ctx, CreateUserParams{Username: "alice", Email: "other@example.com", PasswordHash: "hash"})
	require.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = testStore.CreateUser(ctx, CreateUserParams{Username: "alice2", Email: "alice@example.com", PasswordHash: "hash"})
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	created := createTestUser(t, "bob")

	byName, err := testStore.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, byName)
	require.Equal(t, created.ID, byName.ID)
	require.NotEmpty(t, byName.PasswordHash)

	byEmail, err := testStore.GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	require.Equal(t, created.ID, byEmail.ID)

	byID, err := testStore.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "bob", byID.Username)

	missing, err := testStore.GetUserByUsername(ctx, "nonexistent")
	require.NoError(t, err)
	require.Nil(t, missing)
}
