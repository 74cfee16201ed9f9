package filetree

import (
	"context"
	"fmt"

	"fileflow/internal/models"
)

// DeleteResult counts what a DeleteNode call removed.
type DeleteResult struct {
	Nodes        int
	Blobs        int
	BlobFailures int
}

// DeleteNode removes a node and, for folders, everything beneath it. Children
// go before their parent. Blobs are removed only once every record delete has
// succeeded, so a walk that fails part way leaves all files readable. Blob
// deletes are best-effort: a failure is logged and counted.
func (m *Manager) DeleteNode(ctx context.Context, repo Repository, owner int64, nodeID string) (*DeleteResult, error) {
	node, err := m.GetNode(ctx, repo, owner, nodeID)
	if err != nil {
		return nil, err
	}

	res := &DeleteResult{}
	var files []models.Node
	visited := make(map[string]struct{})
	if err := m.deleteRecursive(ctx, repo, node, 0, visited, res, &files); err != nil {
		return nil, err
	}

	for i := range files {
		m.deleteBlob(ctx, &files[i], res)
	}

	m.log.Info(ctx, "node deleted",
		"node_id", nodeID,
		"owner_id", owner,
		"nodes", res.Nodes,
		"blobs", res.Blobs,
		"blob_failures", res.BlobFailures,
	)
	return res, nil
}

func (m *Manager) deleteRecursive(ctx context.Context, repo Repository, node *models.Node, depth int, visited map[string]struct{}, res *DeleteResult, files *[]models.Node) error {
	if _, seen := visited[node.ID]; seen {
		return fmt.Errorf("%w: cycle at node %s", ErrInternal, node.ID)
	}
	if depth >= m.maxDepth {
		return fmt.Errorf("%w: tree deeper than %d", ErrInternal, m.maxDepth)
	}
	visited[node.ID] = struct{}{}

	if node.IsFolder {
		children, err := repo.GetChildren(ctx, node.ID)
		if err != nil {
			return fmt.Errorf("%w: list children of %s: %v", ErrInternal, node.ID, err)
		}
		for i := range children {
			if err := m.deleteRecursive(ctx, repo, &children[i], depth+1, visited, res, files); err != nil {
				return err
			}
		}
	}

	deleted, err := repo.DeleteNode(ctx, node.ID)
	if err != nil {
		return fmt.Errorf("%w: delete node %s: %v", ErrInternal, node.ID, err)
	}
	if deleted {
		res.Nodes++
		if node.IsFile() {
			*files = append(*files, *node)
		}
	}
	return nil
}

func (m *Manager) deleteBlob(ctx context.Context, node *models.Node, res *DeleteResult) {
	if node.StorageKey == "" {
		return
	}
	if err := m.blobs.Delete(ctx, node.StorageKey); err != nil {
		res.BlobFailures++
		m.log.Warn(ctx, "failed to delete blob",
			"node_id", node.ID,
			"storage_key", node.StorageKey,
			"error", err,
		)
		return
	}
	res.Blobs++
}
