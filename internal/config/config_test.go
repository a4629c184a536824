package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, ".", cfg.ArtifactDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(cfg.DataDir, "state"), cfg.StatePath())
	assert.Equal(t, filepath.Join(cfg.DataDir, "forge.lock"), cfg.LockPath())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forgefile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /tmp/forge-data\nartifact_dir: /srv/stack\nlog:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/forge-data", cfg.DataDir)
	assert.Equal(t, "/srv/stack", cfg.ArtifactDir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().ArtifactDir, cfg.ArtifactDir)
}
