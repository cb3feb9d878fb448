package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URL)
	assert.Equal(t, "secure_document_vault", cfg.Mongo.Database)
	assert.Equal(t, "./uploads", cfg.Storage.UploadDir)
	assert.Equal(t, "./temp", cfg.Storage.TempDir)
	assert.Equal(t, "./log_exports", cfg.Storage.LogExportDir)
	assert.Equal(t, "http://localhost:8000/tag", cfg.Tagger.URL)
	assert.Equal(t, 10*time.Second, cfg.Tagger.Timeout)
	assert.Empty(t, cfg.Cache.Addr, "caching is off unless an address is configured")
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Production())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("MONGODB_URL", "mongodb://db:27017")
	t.Setenv("TAGGER_TIMEOUT", "3s")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.EncryptionKey)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URL)
	assert.Equal(t, 3*time.Second, cfg.Tagger.Timeout)
	assert.Equal(t, "cache:6379", cfg.Cache.Addr)
	assert.True(t, cfg.Production())
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("TAGGER_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}
