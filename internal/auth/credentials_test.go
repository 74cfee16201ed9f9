package auth

import (
	"context"
	"testing"

	"fileflow/internal/database/memory"

	"github.com/stretchr/testify/require"
)

func TestCredentials_RegisterAndVerify(t *testing.T) {
	ctx := context.Background()
	creds := NewCredentials(memory.NewStore())

	user, err := creds.Register(ctx, " alice ", "alice@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.NotEqual(t, "correct-horse", user.PasswordHash)

	id, ok, err := creds.Verify(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, user.ID, id)

	_, ok, err = creds.Verify(ctx, "alice", "wrong-password")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = creds.Verify(ctx, "nobody", "correct-horse")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCredentials_RegisterConflicts(t *testing.T) {
	ctx := context.Background()
	creds := NewCredentials(memory.NewStore())

	_, err := creds.Register(ctx, "alice", "alice@example.com", "password1")
	require.NoError(t, err)

	_, err = creds.Register(ctx, "alice", "other@example.com", "password1")
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = creds.Register(ctx, "bob", "alice@example.com", "password1")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestCredentials_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	creds := NewCredentials(memory.NewStore())

	_, err := creds.Register(ctx, "  ", "a@example.com", "password1")
	require.ErrorIs(t, err, ErrInvalidUsername)

	_, err = creds.Register(ctx, "carol", "not-an-email", "password1")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = creds.Register(ctx, "carol", "carol@example.com", "short")
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestCredentials_VerifyTrimsUsername(t *testing.T) {
	ctx := context.Background()
	creds := NewCredentials(memory.NewStore())

	user, err := creds.Register(ctx, "alice ", "alice@example.com", "correct-horse")
	require.NoError(t, err)

	for _, input := range []string{"alice ", "alice", "  alice"} {
		id, ok, err := creds.Verify(ctx, input, "correct-horse")
		require.NoError(t, err)
		require.True(t, ok, input)
		require.Equal(t, user.ID, id)
	}
}
