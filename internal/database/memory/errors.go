package memory

import "errors"

// These mirror the constraint violations the Postgres schema reports.
var (
	ErrDuplicateID       = errors.New("memory: node id already exists")
	ErrUnknownOwner      = errors.New("memory: owner does not exist")
	ErrUnknownParent     = errors.New("memory: parent node does not exist")
	ErrMissingStorageKey = errors.New("memory: file node requires a storage key")
	ErrHasChildren       = errors.New("memory: node still has children")
)
