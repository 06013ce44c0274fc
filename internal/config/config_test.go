package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	timeout, err := cfg.ConnectTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "deptboard.yaml", `
server:
  addr: ":9090"
  resume: true
backend:
  url: http://backend/api
charts:
  cache_ttl: 1m
`)
	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.Server.Resume)
	assert.Equal(t, "http://backend/api", cfg.Backend.URL)
	assert.Equal(t, "fiber", cfg.Server.Transport)
	ttl, err := cfg.ChartCacheTTL()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "deptboard.toml", `
[server]
transport = "stdlib"

[storage]
path = "data/deptboard.db"

[log]
format = "json"
`)
	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))
	assert.Equal(t, "stdlib", cfg.Server.Transport)
	assert.Equal(t, "data/deptboard.db", cfg.Storage.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "deptboard.ini", "x=1")
	cfg := Default()
	require.Error(t, LoadFile(path, &cfg))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DEPTBOARD_ADDR":         ":7000",
		"DEPTBOARD_BACKEND_MOCK": "true",
		"DEPTBOARD_LOG_LEVEL":    "debug",
		"DEPTBOARD_RESUME":       "not-a-bool",
		"GEMINI_API_KEY":         "key",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg := Default()
	ApplyEnv(&cfg, lookup)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.True(t, cfg.Backend.Mock)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Server.Resume)
	assert.Equal(t, "key", cfg.Assistant.APIKey)
}

func TestLoadWithDotEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "DEPTBOARD_CHARTS_THEME=dark\n")
	t.Setenv("DEPTBOARD_CHARTS_THEME", "")
	require.NoError(t, os.Unsetenv("DEPTBOARD_CHARTS_THEME"))

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Charts.Theme)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.Transport = "grpc"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Assistant.Provider = "gemini"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Backend.ConnectTimeout = "soon"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Backend.URL = ""
	require.Error(t, cfg.Validate())
	cfg.Backend.Mock = true
	require.NoError(t, cfg.Validate())
}
