// Package filetree maintains each user's hierarchy of folders and files.
//
// Every operation takes the Repository to run against. Callers pass either a
// store directly or the querier of an open transaction, and commit or roll
// back themselves; Manager never begins a transaction.
package filetree

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"fileflow/internal/database"
	"fileflow/internal/logging"
	"fileflow/internal/models"
	"fileflow/internal/storage"

	"github.com/jaevor/go-nanoid"
)

const (
	idLength        = 21
	maxIDAttempts   = 10
	DefaultMaxDepth = 1024
)

// Repository is the subset of database.Querier the tree needs.
type Repository interface {
	CreateNode(ctx context.Context, arg database.CreateNodeParams) (*models.Node, error)
	GetNodeByID(ctx context.Context, id string) (*models.Node, error)
	GetNodesByParentID(ctx context.Context, ownerID int64, parentID *string) ([]models.Node, error)
	GetChildren(ctx context.Context, parentID string) ([]models.Node, error)
	RenameNode(ctx context.Context, id string, newName string) (bool, error)
	MoveNode(ctx context.Context, id string, newParentID *string) (bool, error)
	DeleteNode(ctx context.Context, id string) (bool, error)
	NodeExists(ctx context.Context, id string) (bool, error)
}

type Manager struct {
	blobs    storage.BlobStore
	log      logging.Logger
	newID    func() string
	maxDepth int
}

type Option func(*Manager)

// WithMaxDepth bounds ancestor walks and recursive deletes.
func WithMaxDepth(depth int) Option {
	return func(m *Manager) {
		if depth > 0 {
			m.maxDepth = depth
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

func NewManager(blobs storage.BlobStore, log logging.Logger, opts ...Option) (*Manager, error) {
	generateID, err := nanoid.Standard(idLength)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	m := &Manager{
		blobs:    blobs,
		log:      log.With("component", "filetree"),
		newID:    generateID,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) generateUniqueID(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := m.newID()
		exists, err := repo.NodeExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("%w: check node existence: %v", ErrInternal, err)
		}
		if !exists {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: failed to generate a unique ID after %d attempts", ErrInternal, maxIDAttempts)
}

func (m *Manager) loadNode(ctx context.Context, repo Repository, id string) (*models.Node, error) {
	node, err := repo.GetNodeByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: load node %s: %v", ErrInternal, id, err)
	}
	if node == nil {
		return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return node, nil
}

// GetNode returns the node if it exists and belongs to owner.
func (m *Manager) GetNode(ctx context.Context, repo Repository, owner int64, nodeID string) (*models.Node, error) {
	node, err := m.loadNode(ctx, repo, nodeID)
	if err != nil {
		return nil, err
	}
	if node.OwnerID != owner {
		return nil, fmt.Errorf("node %s: %w", nodeID, ErrPermissionDenied)
	}
	return node, nil
}

// getFolder is GetNode plus a check that the node is a folder.
func (m *Manager) getFolder(ctx context.Context, repo Repository, owner int64, folderID string) (*models.Node, error) {
	folder, err := m.GetNode(ctx, repo, owner, folderID)
	if err != nil {
		return nil, err
	}
	if !folder.IsFolder {
		return nil, fmt.Errorf("node %s is not a folder: %w", folderID, ErrInvalidArgument)
	}
	return folder, nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name cannot be empty: %w", ErrInvalidArgument)
	}
	if len(name) > 255 {
		return "", fmt.Errorf("name longer than 255 bytes: %w", ErrInvalidArgument)
	}
	return name, nil
}

func (m *Manager) CreateFolder(ctx context.Context, repo Repository, owner int64, name string, parentID *string) (*models.Node, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if _, err := m.getFolder(ctx, repo, owner, *parentID); err != nil {
			return nil, err
		}
	}

	id, err := m.generateUniqueID(ctx, repo)
	if err != nil {
		return nil, err
	}

	node, err := repo.CreateNode(ctx, database.CreateNodeParams{
		ID:       id,
		OwnerID:  owner,
		ParentID: parentID,
		Name:     name,
		IsFolder: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create folder record: %v", ErrInternal, err)
	}

	return node, nil
}

// CreateFileParams describes an upload. Size and MimeType are recorded as
// metadata only.
type CreateFileParams struct {
	Name     string
	ParentID *string
	Data     io.Reader
	Size     *int64
	MimeType *string
}

// CreateFile writes the blob first and then inserts the record. When the
// insert fails the blob is removed again.
func (m *Manager) CreateFile(ctx context.Context, repo Repository, owner int64, arg CreateFileParams) (*models.Node, error) {
	name, err := validateName(arg.Name)
	if err != nil {
		return nil, err
	}
	if arg.Data == nil {
		return nil, fmt.Errorf("file data is required: %w", ErrInvalidArgument)
	}
	if arg.ParentID != nil {
		if _, err := m.getFolder(ctx, repo, owner, *arg.ParentID); err != nil {
			return nil, err
		}
	}

	id, err := m.generateUniqueID(ctx, repo)
	if err != nil {
		return nil, err
	}

	key := storage.NewKey(owner)
	if err := m.blobs.Save(ctx, key, arg.Data); err != nil {
		return nil, fmt.Errorf("%w: save blob: %v", ErrStorageIO, err)
	}

	node, err := repo.CreateNode(ctx, database.CreateNodeParams{
		ID:         id,
		OwnerID:    owner,
		ParentID:   arg.ParentID,
		Name:       name,
		StorageKey: key,
		SizeBytes:  arg.Size,
		MimeType:   arg.MimeType,
	})
	if err != nil {
		if delErr := m.blobs.Delete(ctx, key); delErr != nil {
			m.log.Warn(ctx, "failed to remove blob after record insert failed",
				"storage_key", key, "error", delErr)
		}
		return nil, fmt.Errorf("%w: create file record: %v", ErrInternal, err)
	}

	return node, nil
}

// ListChildren lists the direct children of folderID, or the owner's root
// when folderID is nil. Folders come first, then names in byte order.
func (m *Manager) ListChildren(ctx context.Context, repo Repository, owner int64, folderID *string) ([]models.Node, error) {
	if folderID != nil {
		if _, err := m.getFolder(ctx, repo, owner, *folderID); err != nil {
			return nil, err
		}
	}

	nodes, err := repo.GetNodesByParentID(ctx, owner, folderID)
	if err != nil {
		return nil, fmt.Errorf("%w: list children: %v", ErrInternal, err)
	}

	slices.SortStableFunc(nodes, compareNodes)
	return nodes, nil
}

func compareNodes(a, b models.Node) int {
	if a.IsFolder != b.IsFolder {
		if a.IsFolder {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.Name, b.Name)
}

// FileContent is an open blob. The caller must close Body.
type FileContent struct {
	Node     *models.Node
	Name     string
	Size     *int64
	MimeType *string
	Body     io.ReadCloser
}

func (m *Manager) ReadFileBytes(ctx context.Context, repo Repository, owner int64, nodeID string) (*FileContent, error) {
	node, err := m.GetNode(ctx, repo, owner, nodeID)
	if err != nil {
		return nil, err
	}
	if !node.IsFile() {
		return nil, fmt.Errorf("node %s is a folder: %w", nodeID, ErrInvalidArgument)
	}

	exists, err := m.blobs.Exists(ctx, node.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: stat blob: %v", ErrStorageIO, err)
	}
	if !exists {
		return nil, fmt.Errorf("blob for node %s: %w", nodeID, ErrNotFound)
	}

	body, err := m.blobs.Get(ctx, node.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, fmt.Errorf("blob for node %s: %w", nodeID, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: open blob: %v", ErrStorageIO, err)
	}

	return &FileContent{
		Node:     node,
		Name:     node.Name,
		Size:     node.SizeBytes,
		MimeType: node.MimeType,
		Body:     body,
	}, nil
}
