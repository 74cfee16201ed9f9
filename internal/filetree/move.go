package filetree

import (
	"context"
	"fmt"

	"fileflow/internal/models"
)

func (m *Manager) RenameNode(ctx context.Context, repo Repository, owner int64, nodeID, newName string) (*models.Node, error) {
	newName, err := validateName(newName)
	if err != nil {
		return nil, err
	}
	node, err := m.GetNode(ctx, repo, owner, nodeID)
	if err != nil {
		return nil, err
	}

	ok, err := repo.RenameNode(ctx, nodeID, newName)
	if err != nil {
		return nil, fmt.Errorf("%w: rename node %s: %v", ErrInternal, nodeID, err)
	}
	if !ok {
		return nil, fmt.Errorf("node %s: %w", nodeID, ErrNotFound)
	}

	node.Name = newName
	return node, nil
}

// MoveNode relinks nodeID under newParentID, or to the root when it is nil.
// The target must be one of the owner's folders and must not lie inside the
// subtree being moved.
func (m *Manager) MoveNode(ctx context.Context, repo Repository, owner int64, nodeID string, newParentID *string) (*models.Node, error) {
	node, err := m.GetNode(ctx, repo, owner, nodeID)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if *newParentID == nodeID {
			return nil, fmt.Errorf("cannot move node %s into itself: %w", nodeID, ErrInvalidArgument)
		}
		if _, err := m.getFolder(ctx, repo, owner, *newParentID); err != nil {
			return nil, err
		}

		ancestors, err := m.ResolveAncestorPath(ctx, repo, *newParentID)
		if err != nil {
			return nil, err
		}
		for _, a := range ancestors {
			if a.ID == nodeID {
				return nil, fmt.Errorf("cannot move node %s into its own subtree: %w", nodeID, ErrInvalidArgument)
			}
		}
	}

	ok, err := repo.MoveNode(ctx, nodeID, newParentID)
	if err != nil {
		return nil, fmt.Errorf("%w: move node %s: %v", ErrInternal, nodeID, err)
	}
	if !ok {
		return nil, fmt.Errorf("node %s: %w", nodeID, ErrNotFound)
	}

	if newParentID != nil {
		parent := *newParentID
		node.ParentID = &parent
	} else {
		node.ParentID = nil
	}
	return node, nil
}
