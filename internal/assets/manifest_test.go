package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(body), 0o644))
	return dir
}

func TestLoadManifest(t *testing.T) {
	dir := writeManifest(t, `["Shark.png", " ", "Cooked_fish.png"]`)
	names, err := LoadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shark.png", "Cooked_fish.png"}, names)
}

func TestLoadManifestFallback(t *testing.T) {
	tests := []struct {
		name string
		dir  func(t *testing.T) string
	}{
		{"no dir", func(*testing.T) string { return "" }},
		{"missing file", func(t *testing.T) string { return t.TempDir() }},
		{"bad json", func(t *testing.T) string { return writeManifest(t, `{"oops":`) }},
		{"not an array", func(t *testing.T) string { return writeManifest(t, `{"a":1}`) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := LoadManifest(tt.dir(t))
			assert.Error(t, err)
			assert.Equal(t, []string{"Bacon.png"}, names)
		})
	}
}

func TestFallbackIsNotShared(t *testing.T) {
	names, _ := LoadManifest("")
	names[0] = "Changed.png"
	assert.Equal(t, []string{"Bacon.png"}, Fallback)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Cooked fish", Label("Cooked_fish.png"))
	assert.Equal(t, "Bacon", Label("food/Bacon.png"))
}

func TestPick(t *testing.T) {
	assert.Equal(t, "", Pick(nil))
	assert.Equal(t, "Bacon.png", Pick([]string{"Bacon.png"}))
}
