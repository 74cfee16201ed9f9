package database

import (
	"context"
	"errors"
	"time"

	"fileflow/internal/models"

	"github.com/jackc/pgx/v5"
)

const nodeColumns = `id, owner_id, parent_id, name, is_folder, storage_key, size_bytes, mime_type, created_at`

func scanNode(row pgx.Row) (*models.Node, error) {
	var node models.Node
	err := row.Scan(
		&node.ID,
		&node.OwnerID,
		&node.ParentID,
		&node.Name,
		&node.IsFolder,
		&node.StorageKey,
		&node.SizeBytes,
		&node.MimeType,
		&node.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func collectNodes(rows pgx.Rows) ([]models.Node, error) {
	defer rows.Close()

	var nodes []models.Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if nodes == nil {
		return []models.Node{}, nil
	}

	return nodes, nil
}

func (q *Queries) CreateNode(ctx context.Context, arg CreateNodeParams) (*models.Node, error) {
	query := `
		INSERT INTO nodes (id, owner_id, parent_id, name, is_folder, storage_key, size_bytes, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + nodeColumns

	row := q.db.QueryRow(ctx, query,
		arg.ID,
		arg.OwnerID,
		arg.ParentID,
		arg.Name,
		arg.IsFolder,
		arg.StorageKey,
		arg.SizeBytes,
		arg.MimeType,
		time.Now().UTC(),
	)

	return scanNode(row)
}

func (q *Queries) GetNodeByID(ctx context.Context, id string) (*models.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE id = $1`

	node, err := scanNode(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return node, nil
}

// GetNodesByParentID lists the owner's nodes directly under parentID, or at
// the root when parentID is nil. Folders come first.
func (q *Queries) GetNodesByParentID(ctx context.Context, ownerID int64, parentID *string) ([]models.Node, error) {
	var rows pgx.Rows
	var err error

	if parentID == nil {
		query := `SELECT ` + nodeColumns + `
				 FROM nodes
				 WHERE owner_id = $1 AND parent_id IS NULL
				 ORDER BY is_folder DESC, name COLLATE "C"`
		rows, err = q.db.Query(ctx, query, ownerID)
	} else {
		query := `SELECT ` + nodeColumns + `
				 FROM nodes
				 WHERE owner_id = $1 AND parent_id = $2
				 ORDER BY is_folder DESC, name COLLATE "C"`
		rows, err = q.db.Query(ctx, query, ownerID, *parentID)
	}
	if err != nil {
		return nil, err
	}

	return collectNodes(rows)
}

// GetChildren lists every node whose parent is parentID regardless of owner.
func (q *Queries) GetChildren(ctx context.Context, parentID string) ([]models.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE parent_id = $1 ORDER BY created_at, id`

	rows, err := q.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}

	return collectNodes(rows)
}

func (q *Queries) RenameNode(ctx context.Context, id string, newName string) (bool, error) {
	res, err := q.db.Exec(ctx, `UPDATE nodes SET name = $1 WHERE id = $2`, newName, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// MoveNode relinks the node under newParentID, or to the root when it is nil.
// Callers must rule out moves below the node's own subtree.
func (q *Queries) MoveNode(ctx context.Context, id string, newParentID *string) (bool, error) {
	res, err := q.db.Exec(ctx, `UPDATE nodes SET parent_id = $1 WHERE id = $2`, newParentID, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) DeleteNode(ctx context.Context, id string) (bool, error) {
	res, err := q.db.Exec(ctx, `DELETE FROM nodes WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) NodeExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM nodes WHERE id = $1)"
	err := q.db.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
