package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "https://api.chess.com/pub", cfg.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "chess.yaml", `
base_url: http://localhost:9999/pub
timeout: 3s
log_level: debug
transport: http
addr: ":9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/pub", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "/mcp", cfg.Path)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "chess.yaml", "base_url: http://from-file/pub\n")
	t.Setenv("CHESS_API_BASE_URL", "https://from-env.example/pub")
	t.Setenv("CHESS_HTTP_TIMEOUT", "750ms")
	t.Setenv("CHESS_MCP_API_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example/pub", cfg.BaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "secret", cfg.APIKey)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "timeout: [oops"))
	assert.Error(t, err)

	t.Setenv("CHESS_HTTP_TIMEOUT", "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "api.chess.com/pub"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Transport = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "CHESS_LOG_LEVEL=warn\n")
	t.Setenv("CHESS_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("CHESS_LOG_LEVEL"))

	assert.True(t, LoadDotEnv(path))
	assert.Equal(t, "warn", os.Getenv("CHESS_LOG_LEVEL"))
	t.Cleanup(func() { _ = os.Unsetenv("CHESS_LOG_LEVEL") })

	assert.False(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
