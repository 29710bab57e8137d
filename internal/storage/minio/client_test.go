package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartquiz/smartquiz-server/internal/model"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error

	putInfo minioLib.UploadInfo
	putErr  error

	getRC  io.ReadCloser
	getErr error

	removeErr error

	statInfo minioLib.ObjectInfo
	statErr  error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, _ string, _ io.Reader, _ int64, _ minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	return f.putInfo, f.putErr
}
func (f *fakeMinio) GetObject(_ context.Context, _ string, _ string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}
func (f *fakeMinio) RemoveObject(_ context.Context, _ string, _ string, _ minioLib.RemoveObjectOptions) error {
	return f.removeErr
}
func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return f.statInfo, f.statErr
}

func TestNewClientWithAPI_BucketExists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "b", c.bucket)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)
	assert.Equal(t, "bucket", c.bucket)
}

func TestNewClientWithAPI_BucketExistsError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExistsErr: errors.New("boom")}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	assert.Nil(t, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
}

func TestNewClientWithAPI_MakeBucketError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false, makeBucketErr: errors.New("fail")}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	assert.Nil(t, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{bucketExists: true}
		c, err := NewClientWithAPI(ctx, api, "b")
		require.NoError(t, err)

		err = c.Upload(ctx, "doc-1", bytes.NewReader([]byte("pdf bytes")))
		assert.NoError(t, err)
	})

	t.Run("put error", func(t *testing.T) {
		api := &fakeMinio{bucketExists: true, putErr: errors.New("broken pipe")}
		c, err := NewClientWithAPI(ctx, api, "b")
		require.NoError(t, err)

		err = c.Upload(ctx, "doc-1", bytes.NewReader([]byte("pdf bytes")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{
			bucketExists: true,
			getRC:        io.NopCloser(bytes.NewReader([]byte("pdf bytes"))),
		}
		c, err := NewClientWithAPI(ctx, api, "b")
		require.NoError(t, err)

		rc, err := c.Download(ctx, "doc-1")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("pdf bytes"), data)
	})

	t.Run("missing object", func(t *testing.T) {
		api := &fakeMinio{
			bucketExists: true,
			statErr:      minioLib.ErrorResponse{Code: "NoSuchKey"},
		}
		c, err := NewClientWithAPI(ctx, api, "b")
		require.NoError(t, err)

		rc, err := c.Download(ctx, "doc-missing")
		assert.Nil(t, rc)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("stat error", func(t *testing.T) {
		api := &fakeMinio{bucketExists: true, statErr: errors.New("io timeout")}
		c, err := NewClientWithAPI(ctx, api, "b")
		require.NoError(t, err)

		_, err = c.Download(ctx, "doc-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()

	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b")
	require.NoError(t, err)
	assert.NoError(t, c.Delete(ctx, "doc-1"))

	api.removeErr = errors.New("denied")
	err = c.Delete(ctx, "doc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete object")
}
