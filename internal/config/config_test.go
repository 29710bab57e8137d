package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.False(t, cfg.HTTP.EnableHTTPS)
	assert.Equal(t, "smartquiz-pdfs", cfg.Storage.Bucket)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 3, cfg.Gemini.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Gemini.RetryDelay)
	assert.Equal(t, "smartquiz_ai_db_v1", cfg.Snapshot.Key)
	assert.Equal(t, int64(5242880), cfg.Snapshot.MaxBytes)
	assert.Equal(t, "18321376704", cfg.Snapshot.AdminPhone)
	assert.Equal(t, int64(30*1024*1024), cfg.Upload.MaxSizeBytes)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("GEMINI_MAX_ATTEMPTS", "5")
	t.Setenv("GEMINI_RETRY_DELAY", "500ms")
	t.Setenv("SNAPSHOT_MAX_BYTES", "1024")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 5, cfg.Gemini.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Gemini.RetryDelay)
	assert.Equal(t, int64(1024), cfg.Snapshot.MaxBytes)
}
