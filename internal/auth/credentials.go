package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"fileflow/internal/database"
	"fileflow/internal/models"
)

var (
	ErrUsernameTaken   = errors.New("username already exists")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidUsername = errors.New("username must be 1-50 characters")
	ErrInvalidEmail    = errors.New("email address is not valid")
	ErrInvalidPassword = errors.New("password must be 8-72 bytes")
)

// UserRepository is what the credential store needs from the database.
type UserRepository interface {
	CreateUser(ctx context.Context, arg database.CreateUserParams) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Credentials holds user identities and verifies passwords. It knows nothing
// about files or folders.
type Credentials struct {
	users UserRepository
}

func NewCredentials(users UserRepository) *Credentials {
	return &Credentials{users: users}
}

func (c *Credentials) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || len(username) > 50 {
		return nil, ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(email); err != nil || len(email) > 120 {
		return nil, ErrInvalidEmail
	}
	// bcrypt ignores everything past 72 bytes.
	if len(password) < 8 || len(password) > 72 {
		return nil, ErrInvalidPassword
	}

	existing, err := c.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = c.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := c.users.CreateUser(ctx, database.CreateUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, database.ErrUserAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

// Verify reports the id of the user whose password matches. ok is false for
// unknown users and wrong passwords alike.
func (c *Credentials) Verify(ctx context.Context, username, password string) (userID int64, ok bool, err error) {
	user, err := c.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return 0, false, err
	}
	if user == nil || !CheckPasswordHash(password, user.PasswordHash) {
		return 0, false, nil
	}
	return user.ID, true, nil
}
