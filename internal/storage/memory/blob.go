// Package memory provides an in-memory blob store for tests and for running
// the server without an object storage backend.
package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/smartquiz/smartquiz-server/internal/model"
)

var _ model.BlobStore = (*BlobStore)(nil)

// BlobStore is a mutex-guarded map implementation of model.BlobStore.
type BlobStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewBlobStore creates an empty in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		objects: make(map[string][]byte),
	}
}

// Upload stores the reader's content under key, overwriting any previous value.
func (s *BlobStore) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

// Download returns the content stored under key, or model.ErrNotFound.
func (s *BlobStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrNotFound
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return io.NopCloser(bytes.NewReader(buf)), nil
}

// Delete removes the content stored under key. Deleting a missing key is a no-op.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
