package database

import (
	"context"
	"errors"

	"fileflow/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrUserAlreadyExists = errors.New("a user with this username or email already exists")

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Querier is the full set of queries available on a store or inside a
// transaction. Lookups return nil, nil when the row does not exist.
type Querier interface {
	CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateNode(ctx context.Context, arg CreateNodeParams) (*models.Node, error)
	GetNodeByID(ctx context.Context, id string) (*models.Node, error)
	GetNodesByParentID(ctx context.Context, ownerID int64, parentID *string) ([]models.Node, error)
	GetChildren(ctx context.Context, parentID string) ([]models.Node, error)
	RenameNode(ctx context.Context, id string, newName string) (bool, error)
	MoveNode(ctx context.Context, id string, newParentID *string) (bool, error)
	DeleteNode(ctx context.Context, id string) (bool, error)
	NodeExists(ctx context.Context, id string) (bool, error)
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
}

type CreateNodeParams struct {
	ID         string
	OwnerID    int64
	ParentID   *string
	Name       string
	IsFolder   bool
	StorageKey string
	SizeBytes  *int64
	MimeType   *string
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

var _ Querier = (*Queries)(nil)
