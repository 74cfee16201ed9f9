package filetree

import (
	"context"
	"fmt"
	"slices"

	"fileflow/internal/models"
)

// ResolveAncestorPath returns the chain from the topmost ancestor down to
// folderID, inclusive. A parent link to a missing node ends the walk.
func (m *Manager) ResolveAncestorPath(ctx context.Context, repo Repository, folderID string) ([]models.Node, error) {
	var path []models.Node
	visited := make(map[string]struct{})

	current := &folderID
	for current != nil {
		if _, seen := visited[*current]; seen {
			return nil, fmt.Errorf("%w: cycle at node %s", ErrInternal, *current)
		}
		if len(path) >= m.maxDepth {
			return nil, fmt.Errorf("%w: ancestor chain deeper than %d", ErrInternal, m.maxDepth)
		}
		visited[*current] = struct{}{}

		node, err := repo.GetNodeByID(ctx, *current)
		if err != nil {
			return nil, fmt.Errorf("%w: load ancestor %s: %v", ErrInternal, *current, err)
		}
		if node == nil {
			break
		}

		path = append(path, *node)
		current = node.ParentID
	}

	slices.Reverse(path)
	return path, nil
}
