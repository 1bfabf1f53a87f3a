package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.Model.Name)
	assert.True(t, cfg.Storage.SeedDemo)
	assert.True(t, cfg.Speech.Enabled)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := Path(t.TempDir())

	cfg := DefaultConfig()
	cfg.Model.Name = "gemini-2.5-pro"
	cfg.Storage.SeedDemo = false
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", loaded.Model.Name)
	assert.False(t, loaded.Storage.SeedDemo)
}

func TestLoadFillsEmptyModelName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  name: \"\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.Model.Name)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DASHY_MODEL", "gemini-2.5-flash-lite")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.Model.APIKey)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Model.Name)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
