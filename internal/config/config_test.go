package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "openrouter", cfg.Engine.Provider)
	assert.Equal(t, 18920, cfg.Gateway.Port)
	assert.Equal(t, 10, cfg.Confirm.TTLMinutes)
	assert.Equal(t, "sqlite", cfg.Session.Store)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  provider: mock
  model: test-model
agent:
  name: Desk Bot
gateway:
  port: 9000
session:
  store: memory
  maxEntries: 100
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.Engine.Provider)
	assert.Equal(t, "test-model", cfg.Engine.Model)
	assert.Equal(t, "Desk Bot", cfg.Agent.Name)
	assert.Equal(t, 9000, cfg.Gateway.Port)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 100, cfg.Session.MaxEntries)
	// Untouched fields keep defaults.
	assert.Equal(t, 10, cfg.Confirm.TTLMinutes)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [bad"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestExpandSensitiveFields(t *testing.T) {
	t.Setenv("TEST_HRDESK_KEY", "sk-123")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  apiKey: ${TEST_HRDESK_KEY}
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-123", cfg.Engine.APIKey)
}

func TestExpandUnsetVarLeftAlone(t *testing.T) {
	assert.Equal(t, "${HRDESK_NO_SUCH_VAR_42}", expandEnvVars("${HRDESK_NO_SUCH_VAR_42}"))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HRDESK_GATEWAY_PORT", "7777")
	t.Setenv("HRDESK_LOG_LEVEL", "DEBUG")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Gateway.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.Nil(t, Validate(&cfg))

	cfg.Engine.Provider = "bogus"
	cfg.Gateway.Port = 99999
	cfg.Session.Store = "redis"
	cfg.Confirm.TTLMinutes = -1

	issues := Validate(&cfg)
	require.Len(t, issues, 4)

	paths := make([]string, len(issues))
	for i, issue := range issues {
		paths[i] = issue.Path
	}
	assert.Contains(t, paths, "engine.provider")
	assert.Contains(t, paths, "gateway.port")
	assert.Contains(t, paths, "session.store")
	assert.Contains(t, paths, "confirm.ttlMinutes")
}

func TestParseConfigPath(t *testing.T) {
	parts, err := ParseConfigPath("gateway.auth.token")
	require.NoError(t, err)
	assert.Equal(t, []string{"gateway", "auth", "token"}, parts)

	_, err = ParseConfigPath("")
	assert.Error(t, err)

	_, err = ParseConfigPath("a..b")
	assert.Error(t, err)

	_, err = ParseConfigPath("__proto__.x")
	assert.Error(t, err)
}

func TestGetSetValueAtPath(t *testing.T) {
	root := map[string]any{}
	SetValueAtPath(root, []string{"gateway", "port"}, 8080)

	v, ok := GetValueAtPath(root, []string{"gateway", "port"})
	require.True(t, ok)
	assert.Equal(t, 8080, v)

	_, ok = GetValueAtPath(root, []string{"gateway", "missing"})
	assert.False(t, ok)
}
