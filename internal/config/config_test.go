package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "lessongo")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "lessongo")
}

func TestNew_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("IMAGES_DIR", "")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "public/images/lessons", cfg.Images.Dir)
}

func TestNew_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("IMAGES_DIR", "/srv/lesson-images")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/lesson-images", cfg.Images.Dir)
}

func TestNew_MissingRequiredPostgresVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POSTGRES_USER", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")
}

func TestNew_InvalidServerPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
}
