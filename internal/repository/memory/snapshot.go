// Package memory provides an in-memory snapshot store for tests and for
// running the server without a database.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/smartquiz/smartquiz-server/internal/model"
)

var _ model.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore holds the serialized AppState in memory. It keeps the same
// serialize-the-whole-state semantics as the persistent implementation so
// quota behavior matches.
type SnapshotStore struct {
	mu         sync.RWMutex
	raw        []byte
	maxBytes   int64
	adminPhone string
}

// NewSnapshotStore creates an empty snapshot store. maxBytes of zero disables
// the quota check.
func NewSnapshotStore(maxBytes int64, adminPhone string) *SnapshotStore {
	return &SnapshotStore{
		maxBytes:   maxBytes,
		adminPhone: adminPhone,
	}
}

// Load returns the stored state, or the freshly seeded default when nothing
// has been saved yet or the stored bytes are unreadable.
func (s *SnapshotStore) Load(ctx context.Context) (model.AppState, error) {
	s.mu.RLock()
	raw := s.raw
	s.mu.RUnlock()

	if raw == nil {
		return model.DefaultState(s.adminPhone), nil
	}

	var state model.AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		return model.DefaultState(s.adminPhone), nil
	}
	return state, nil
}

// Save serializes and stores the entire state.
func (s *SnapshotStore) Save(ctx context.Context, state model.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if s.maxBytes > 0 && int64(len(raw)) > s.maxBytes {
		return fmt.Errorf("%w: snapshot size %d exceeds cap %d", model.ErrQuotaExceeded, len(raw), s.maxBytes)
	}

	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites the stored bytes with garbage. Test helper for the
// reseed-on-unreadable-snapshot path.
func (s *SnapshotStore) Corrupt() {
	s.mu.Lock()
	s.raw = []byte("{corrupt")
	s.mu.Unlock()
}
