package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout())
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, time.Minute, cfg.Reminders.DispatchInterval())
	assert.Equal(t, "crownvoyages", cfg.Database.DBName)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "hunter2")
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret
database:
  password: ${TEST_DB_PASSWORD}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=hunter2")
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	path := writeConfig(t, `
http:
  port: "9000"
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "jwt_secret")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret
  session_ttl_minutes: 30
http:
  port: "9000"
  rate_limit: 5
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, float64(5), cfg.HTTP.RateLimit)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL())
}
