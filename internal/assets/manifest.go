// Package assets reads the food image manifest used by the feed animation.
package assets

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// ManifestFile is the manifest's name inside the assets directory.
const ManifestFile = "manifest.json"

// Fallback is used whenever the manifest cannot be read.
var Fallback = []string{"Bacon.png"}

// LoadManifest reads dir/manifest.json, a JSON array of image file names.
// On any failure it returns a copy of Fallback along with the error, so
// callers can log and carry on.
func LoadManifest(dir string) ([]string, error) {
	if dir == "" {
		return fallback(), fmt.Errorf("load manifest: no assets dir configured")
	}
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return fallback(), fmt.Errorf("load manifest: %w", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fallback(), fmt.Errorf("parse manifest: %w", err)
	}

	out := names[:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

// Label turns an image file name into display text: "Cooked_fish.png"
// becomes "Cooked fish".
func Label(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return strings.ReplaceAll(base, "_", " ")
}

// Pick returns a random name from names, or "" when empty.
func Pick(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[rand.Intn(len(names))]
}

func fallback() []string {
	return append([]string(nil), Fallback...)
}
