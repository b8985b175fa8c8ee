package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClient_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("WHB_API_ENDPOINT", "")

	cfg, err := LoadClient(filepath.Join(t.TempDir(), "nope.toml"))

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.API.Endpoint)
	assert.Equal(t, 60*time.Second, cfg.API.Timeout.Duration)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.True(t, cfg.Settings.DarkMode)
	assert.True(t, cfg.Settings.AutoCopy)
	assert.Equal(t, FormatMidjourney, cfg.Settings.DefaultFormat)
}

func TestSaveAndLoadClient(t *testing.T) {
	t.Setenv("WHB_API_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultClientConfig()
	cfg.API.Endpoint = "https://prompts.example.com"
	cfg.API.Timeout = Duration{15 * time.Second}
	cfg.Settings.DefaultFormat = FormatStableDiffusion
	cfg.Settings.AutoCopy = false
	cfg.Store.Backend = "redis"
	cfg.Store.URL = "redis://localhost:6379/0"

	require.NoError(t, SaveClient(cfg, path))

	loaded, err := LoadClient(path)
	require.NoError(t, err)

	assert.Equal(t, "https://prompts.example.com", loaded.API.Endpoint)
	assert.Equal(t, 15*time.Second, loaded.API.Timeout.Duration)
	assert.Equal(t, FormatStableDiffusion, loaded.Settings.DefaultFormat)
	assert.False(t, loaded.Settings.AutoCopy)
	assert.Equal(t, "redis", loaded.Store.Backend)
	assert.Equal(t, "redis://localhost:6379/0", loaded.Store.URL)
}

func TestLoadClient_EndpointOverride(t *testing.T) {
	t.Setenv("WHB_API_ENDPOINT", "http://relay:9000")

	cfg, err := LoadClient(filepath.Join(t.TempDir(), "config.toml"))

	require.NoError(t, err)
	assert.Equal(t, "http://relay:9000", cfg.API.Endpoint)
}

func TestLoadClient_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api\nendpoint = "), 0o600))

	_, err := LoadClient(path)

	assert.Error(t, err)
}

func TestLoadClient_UnknownFormatFallsBack(t *testing.T) {
	t.Setenv("WHB_API_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[settings]\ndefault_format = \"dalle\"\n"), 0o600))

	cfg, err := LoadClient(path)

	require.NoError(t, err)
	assert.Equal(t, FormatMidjourney, cfg.Settings.DefaultFormat)
}

func TestLoadEnvironmentVariables(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("PORT", "9999")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := LoadEnvironmentVariables()

	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadEnvironmentVariables_MissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadEnvironmentVariables()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
