package memory

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartquiz/smartquiz-server/internal/model"
)

func TestBlobStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()

	require.NoError(t, s.Upload(ctx, "doc-1", bytes.NewReader([]byte("pdf bytes"))))

	rc, err := s.Download(ctx, "doc-1")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestBlobStore_DownloadMissing(t *testing.T) {
	s := NewBlobStore()

	rc, err := s.Download(context.Background(), "nope")
	assert.Nil(t, rc)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBlobStore_UploadOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()

	require.NoError(t, s.Upload(ctx, "doc-1", bytes.NewReader([]byte("v1"))))
	require.NoError(t, s.Upload(ctx, "doc-1", bytes.NewReader([]byte("v2"))))

	rc, err := s.Download(ctx, "doc-1")
	require.NoError(t, err)
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	assert.Equal(t, []byte("v2"), data)
}

func TestBlobStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()

	require.NoError(t, s.Upload(ctx, "doc-1", bytes.NewReader([]byte("pdf"))))
	require.NoError(t, s.Delete(ctx, "doc-1"))

	_, err := s.Download(ctx, "doc-1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, s.Delete(ctx, "doc-1"))
}
