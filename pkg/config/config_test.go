package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreBackendFile, cfg.Store.Backend)
	assert.Equal(t, "./data/learned_patterns.json", cfg.Store.Path)
	assert.Zero(t, cfg.Engine.MaxTextBytes)
	assert.False(t, cfg.Observability.MetricsEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("ENGINE_MAX_TEXT_BYTES", "1048576")
	t.Setenv("POSTGRES_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreBackendPostgres, cfg.Store.Backend)
	assert.Equal(t, 1048576, cfg.Engine.MaxTextBytes)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")

	_, err := Load()
	assert.Error(t, err)
}
