package filetree

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrStorageIO        = errors.New("storage i/o error")
	ErrInternal         = errors.New("internal error")
)
