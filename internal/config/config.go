package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const defaultPollInterval = "200ms"

type Config struct {
	DBPath       string `toml:"db_path"`
	SourcePath   string `toml:"source_path"`
	PollInterval string `toml:"poll_interval"`
	LogLevel     string `toml:"log_level"`
	LogPath      string `toml:"log_path"`
	AssetsDir    string `toml:"assets_dir"`
	MetricsAddr  string `toml:"metrics_addr"`

	// File is the config file that was read, or "" if none exists.
	File string `toml:"-"`
}

// Dir returns ~/.config/droptrack.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "droptrack"), nil
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:       filepath.Join(dir, "droptrack.db"),
		SourcePath:   filepath.Join(dir, "chatbox.txt"),
		PollInterval: defaultPollInterval,
		LogLevel:     "info",
		LogPath:      filepath.Join(dir, "logs"),
		AssetsDir:    filepath.Join(dir, "assets"),
	}

	cfgPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
		cfg.File = cfgPath
	}

	if _, err := cfg.Interval(); err != nil {
		return nil, err
	}

	// expand ~ in paths
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.SourcePath = expandHome(cfg.SourcePath, home)
	cfg.LogPath = expandHome(cfg.LogPath, home)
	cfg.AssetsDir = expandHome(cfg.AssetsDir, home)

	return cfg, nil
}

// Interval parses PollInterval. An empty value means the default.
func (c *Config) Interval() (time.Duration, error) {
	s := c.PollInterval
	if s == "" {
		s = defaultPollInterval
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("poll_interval %q: %w", c.PollInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("poll_interval %q: must be positive", c.PollInterval)
	}
	return d, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
