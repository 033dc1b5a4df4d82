package port

import (
	"context"
	"mime/multipart"
)

// FileStore persists uploaded files and yields storage-relative paths.
//
// Save validates the file against the field's type and size constraints
// before any bytes reach storage, and returns the relative path (for
// example "licenses/licenseDocument-<suffix>.pdf") that callers persist
// on the identity record. Remove deletes a previously saved file and is
// used as the compensating action when a registration fails after some
// of its files were written.
type FileStore interface {
	Save(ctx context.Context, field string, file *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, relPath string) error
}
