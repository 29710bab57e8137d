package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/smartquiz/smartquiz-server/internal/logger"
	"github.com/smartquiz/smartquiz-server/internal/model"
)

// Internal adapter interface to enable unit testing without a database.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ model.SnapshotStore = (*SnapshotRepository)(nil)

// SnapshotRepository persists the whole AppState as a single row keyed by a
// fixed snapshot key. Every mutation rewrites the entire serialized state:
// write efficiency is traded for trivial consistency, which stays cheap
// because binary payloads are routed to the blob store.
type SnapshotRepository struct {
	db         querier
	key        string
	maxBytes   int64
	adminPhone string
	logger     *logger.Logger
}

// NewSnapshotRepository creates a snapshot repository over db. maxBytes caps
// the serialized snapshot size; adminPhone seeds the default state.
func NewSnapshotRepository(db *Connection, key string, maxBytes int64, adminPhone string, logger *logger.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:         db,
		key:        key,
		maxBytes:   maxBytes,
		adminPhone: adminPhone,
		logger:     logger,
	}
}

// Load reads the current snapshot. A missing or unreadable snapshot is
// treated as first run and recovered by reseeding the default state; the
// recovery is logged because it silently discards whatever was stored.
func (r *SnapshotRepository) Load(ctx context.Context) (model.AppState, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM snapshots WHERE key = $1`, r.key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.DefaultState(r.adminPhone), nil
	}
	if err != nil {
		return model.AppState{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var state model.AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		r.logger.Warn("snapshot unreadable, reseeding default state", "key", r.key, "error", err)
		return model.DefaultState(r.adminPhone), nil
	}

	return state, nil
}

// Save serializes and upserts the entire state under the snapshot key.
// States larger than the configured cap are rejected before touching the
// database.
func (r *SnapshotRepository) Save(ctx context.Context, state model.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if r.maxBytes > 0 && int64(len(raw)) > r.maxBytes {
		return fmt.Errorf("%w: snapshot size %d exceeds cap %d", model.ErrQuotaExceeded, len(raw), r.maxBytes)
	}

	query := `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	if _, err := r.db.Exec(ctx, query, r.key, raw); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}
