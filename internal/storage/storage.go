package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is opaque byte storage addressed by a slash-separated key.
// Delete of a missing key is not an error.
type BlobStore interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh key for a blob owned by ownerID.
func NewKey(ownerID int64) string {
	return fmt.Sprintf("users/%d/%s", ownerID, uuid.NewString())
}
