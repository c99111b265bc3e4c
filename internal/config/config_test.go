package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"ANEES_CONFIG", "ANEES_ADDR", "ANEES_REQUEST_TIMEOUT", "ANEES_LOG_MODE", "ANEES_LOG_LEVEL",
	"ANEES_DB", "ANEES_MEMO_BACKEND", "ANEES_MEMO_TTL", "ANEES_REDIS_ADDR", "ANEES_REDIS_DB",
	"ANEES_REDIS_PASSWORD", "ANEES_MAX_ATTEMPTS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, 3, cfg.Tutor.MaxAttempts)
	assert.Equal(t, "memory", cfg.Memo.Backend)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  addr: ":9090"
  request_timeout: 45s
log:
  mode: development
memo:
  backend: redis
  redis_addr: localhost:6379
  ttl: 30m
tutor:
  max_attempts: 2
  temperature: 0.5
  quality:
    min_question_runes: 40
glossary:
  "\\alpha": التسارع الزاوي
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout, "unset fields keep defaults")
	assert.Equal(t, "development", cfg.Log.Mode)
	assert.Equal(t, "redis", cfg.Memo.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Memo.TTL)
	assert.Equal(t, 2, cfg.Tutor.MaxAttempts)
	assert.Equal(t, 0.5, cfg.Tutor.Temperature)
	assert.Equal(t, 0.2, cfg.Tutor.TemperatureStep)
	assert.Equal(t, 40, cfg.Tutor.Quality.MinQuestionRunes)
	assert.Equal(t, "التسارع الزاوي", cfg.Glossary[`\alpha`])
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "server:\n  addr: \":9090\"\n")
	t.Setenv("ANEES_ADDR", ":7000")
	t.Setenv("ANEES_MAX_ATTEMPTS", "5")
	t.Setenv("ANEES_MEMO_TTL", "10m")
	t.Setenv("ANEES_REDIS_PASSWORD", "secret")
	t.Setenv("ANEES_DB", "/tmp/anees.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Tutor.MaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Memo.TTL)
	assert.Equal(t, "secret", cfg.Memo.RedisPassword)
	assert.Equal(t, "/tmp/anees.db", cfg.DBPath)
}

func TestLoad_ConfigEnvPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANEES_CONFIG", writeFile(t, "log:\n  mode: development\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Log.Mode)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "server: [unclosed"},
		{"unknown log mode", "log:\n  mode: verbose\n"},
		{"redis without addr", "memo:\n  backend: redis\n"},
		{"zero attempts", "tutor:\n  max_attempts: 0\n"},
		{"temperature out of range", "tutor:\n  temperature: 1.5\n"},
		{"unknown memo backend", "memo:\n  backend: disk\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := Load(writeFile(t, tt.body)); err == nil {
				t.Fatalf("Load() succeeded, want error")
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	clearEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	assert.Equal(t, filepath.Join(xdg, "anees", "config.yaml"), DefaultPath())

	t.Setenv("ANEES_CONFIG", "/etc/anees.yaml")
	assert.Equal(t, "/etc/anees.yaml", DefaultPath())
}
