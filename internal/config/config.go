package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Catalog source. catalog_url points at a combined document holding
	// stations, countries and tags; catalog_base_url points at a directory
	// with config.json and index.json for the split layout. When both are
	// set the combined document wins.
	CatalogURL     string `koanf:"catalog_url"`
	CatalogBaseURL string `koanf:"catalog_base_url"`

	Theme  ThemeConfig  `koanf:"theme"`
	Stream StreamConfig `koanf:"stream"`
}

// ThemeConfig holds appearance settings.
type ThemeConfig struct {
	Accent string `koanf:"accent"` // hex color, e.g. "#7aa2f7"
}

// StreamConfig holds network tuning for the audio sink.
type StreamConfig struct {
	// DialTimeoutSeconds bounds the wait for a station connection.
	// Zero keeps the built-in default.
	DialTimeoutSeconds int `koanf:"dial_timeout_seconds"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.CatalogURL = strings.TrimSpace(cfg.CatalogURL)
	cfg.CatalogBaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.CatalogBaseURL), "/")

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tuner/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tuner", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}
