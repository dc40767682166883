package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, home, body string) {
	t.Helper()
	dir := filepath.Join(home, ".config", "droptrack")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	require.NoError(t, err)

	dir := filepath.Join(home, ".config", "droptrack")
	assert.Equal(t, filepath.Join(dir, "droptrack.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "chatbox.txt"), cfg.SourcePath)
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Empty(t, cfg.File)

	d, err := cfg.Interval()
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, d)
}

func TestLoadOverridesAndExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, `
db_path = "~/data/track.db"
source_path = "/tmp/chat.txt"
poll_interval = "1s"
log_level = "debug"
metrics_addr = ":9108"
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "track.db"), cfg.DBPath)
	assert.Equal(t, "/tmp/chat.txt", cfg.SourcePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9108", cfg.MetricsAddr)
	assert.NotEmpty(t, cfg.File)

	d, err := cfg.Interval()
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad toml", `db_path = `},
		{"bad interval", `poll_interval = "soon"`},
		{"negative interval", `poll_interval = "-1s"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("HOME", home)
			writeConfig(t, home, tt.body)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/h/x", expandHome("~/x", "/h"))
	assert.Equal(t, "~", expandHome("~", "/h"))
	assert.Equal(t, "/abs", expandHome("/abs", "/h"))
}

func TestDirMatchesLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "droptrack"), dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "droptrack.db"), cfg.DBPath)
}
