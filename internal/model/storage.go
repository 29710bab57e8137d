package model

import (
	"context"
	"io"
)

// BlobStore persists large binary payloads keyed by document id, independent
// of the metadata snapshot. Put semantics overwrite. There is no eviction;
// entries live until the owning document is deleted.
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	// Download returns the stored payload or ErrNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
