package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvSessionFile, "")

	path := writeConfig(t, `
api:
  base_url: https://flights.example.com/api
  timeout_seconds: 15
storage:
  driver: redis
  namespace: alice
redis:
  addr: cache:6379
kafka:
  brokers: [kafka:9092]
  activity_topic: flightbook.activity
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://flights.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout())
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "alice", cfg.Storage.Namespace)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Kafka.Enabled())
	// untouched sections keep their defaults
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 3, cfg.Backend.SurgeThreshold)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://127.0.0.1:9999/api")
	t.Setenv(EnvSessionFile, "/tmp/custom-session.json")

	cfg, err := LoadConfig(writeConfig(t, "api:\n  base_url: http://ignored/api\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9999/api", cfg.API.BaseURL)
	assert.Equal(t, "/tmp/custom-session.json", cfg.Storage.Path)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	_, err = LoadConfig(writeConfig(t, "api: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvAPIURL, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.API.BaseURL)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestDefaultSessionPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "flightbook", "session.json"), DefaultSessionPath())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}
