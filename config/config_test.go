package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "openai", cfg.Backend.Provider)
	assert.Equal(t, 60*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 3, cfg.MCP.MaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.MCP.ConnectWait)
	assert.Equal(t, 20, cfg.Chat.MaxHistory)
	assert.Equal(t, 10, cfg.Chat.MaxContextTurns)
	assert.Equal(t, 8000, cfg.Chat.MaxPromptLen)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  addr: ":9090"
backend:
  provider: anthropic
  model: claude-3-5-sonnet-20241022
chat:
  max_history: 40
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "anthropic", cfg.Backend.Provider)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.Backend.Model)
	assert.Equal(t, 40, cfg.Chat.MaxHistory)
	// Unset keys keep their defaults.
	assert.Equal(t, 10, cfg.Chat.MaxContextTurns)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MCPCHAT_SERVER_ADDR", ":7070")
	t.Setenv("MCPCHAT_BACKEND_PROVIDER", "anthropic")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "anthropic", cfg.Backend.Provider)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Backend.Provider = "gemini"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.MCP.ServerURL = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.MCP.MaxAttempts = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Chat.MaxContextTurns = 50
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Chat.MaxPromptLen = 0
	assert.Error(t, cfg.Validate())
}
