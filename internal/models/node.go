package models

import "time"

// Node is either a folder or a file in a user's tree. StorageKey is set for
// files only and locates the file's bytes in the blob store.
type Node struct {
	ID         string    `json:"id"`
	OwnerID    int64     `json:"owner_id"`
	ParentID   *string   `json:"parent_id"`
	Name       string    `json:"name"`
	IsFolder   bool      `json:"is_folder"`
	StorageKey string    `json:"-"`
	SizeBytes  *int64    `json:"size_bytes,omitempty"`
	MimeType   *string   `json:"mime_type,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (n *Node) IsFile() bool {
	return !n.IsFolder
}
