package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartquiz/smartquiz-server/internal/model"
	"github.com/smartquiz/smartquiz-server/internal/testutil"
)

// fakeRow implements pgx.Row.
type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	p, ok := dest[0].(*[]byte)
	if !ok {
		return errors.New("unexpected scan target")
	}
	*p = r.data
	return nil
}

// fakeQuerier implements querier without a database.
type fakeQuerier struct {
	row fakeRow

	execErr  error
	execSQL  string
	execArgs []any
}

func (q *fakeQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return q.row
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.execSQL = sql
	q.execArgs = args
	return pgconn.CommandTag{}, q.execErr
}

func newTestRepo(q querier, maxBytes int64) *SnapshotRepository {
	return &SnapshotRepository{
		db:         q,
		key:        model.SnapshotKey,
		maxBytes:   maxBytes,
		adminPhone: model.DefaultAdminPhone,
		logger:     testutil.MakeNoopLogger(),
	}
}

func TestSnapshotRepository_Load_MissingRowSeedsDefault(t *testing.T) {
	repo := newTestRepo(&fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}, 0)

	state, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Users, 1)
	assert.Equal(t, model.DefaultAdminPhone, state.Users[0].PhoneNumber)
	assert.Equal(t, model.RoleAdmin, state.Users[0].Role)
	assert.Nil(t, state.CurrentUser)
}

func TestSnapshotRepository_Load_CorruptSnapshotSeedsDefault(t *testing.T) {
	repo := newTestRepo(&fakeQuerier{row: fakeRow{data: []byte("{not json")}}, 0)

	state, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Users, 1)
	assert.Equal(t, model.RoleAdmin, state.Users[0].Role)
}

func TestSnapshotRepository_Load_ExistingSnapshot(t *testing.T) {
	stored := model.DefaultState("")
	stored.Users = append(stored.Users, model.User{PhoneNumber: "111", Role: model.RoleUser})
	raw, err := json.Marshal(stored)
	require.NoError(t, err)

	repo := newTestRepo(&fakeQuerier{row: fakeRow{data: raw}}, 0)

	state, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Users, 2)
}

func TestSnapshotRepository_Load_QueryError(t *testing.T) {
	repo := newTestRepo(&fakeQuerier{row: fakeRow{err: errors.New("connection refused")}}, 0)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read snapshot")
}

func TestSnapshotRepository_Save_Upserts(t *testing.T) {
	q := &fakeQuerier{}
	repo := newTestRepo(q, 0)

	err := repo.Save(context.Background(), model.DefaultState(""))
	require.NoError(t, err)
	assert.Contains(t, q.execSQL, "ON CONFLICT (key) DO UPDATE")
	require.Len(t, q.execArgs, 2)
	assert.Equal(t, model.SnapshotKey, q.execArgs[0])
}

func TestSnapshotRepository_Save_QuotaExceeded(t *testing.T) {
	q := &fakeQuerier{}
	repo := newTestRepo(q, 16)

	err := repo.Save(context.Background(), model.DefaultState(""))
	assert.ErrorIs(t, err, model.ErrQuotaExceeded)
	// Nothing reached the database.
	assert.Empty(t, q.execSQL)
}

func TestSnapshotRepository_Save_ExecError(t *testing.T) {
	repo := newTestRepo(&fakeQuerier{execErr: errors.New("disk full")}, 0)

	err := repo.Save(context.Background(), model.DefaultState(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write snapshot")
}
