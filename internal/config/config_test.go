package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chtemp(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("could not change to temp directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(originalWd)
	})
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Error("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "tuner", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	chtemp(t)

	if err := os.WriteFile("config.toml", []byte(""), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
}

func TestLoad_BasicConfig(t *testing.T) {
	chtemp(t)

	configContent := `
catalog_url = "https://radio.example.com/stations.json"
catalog_base_url = "https://radio.example.com/catalog/"

[theme]
accent = "#7aa2f7"
`
	if err := os.WriteFile("config.toml", []byte(configContent), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CatalogURL != "https://radio.example.com/stations.json" {
		t.Errorf("CatalogURL = %q", cfg.CatalogURL)
	}

	// Check that base URL trailing slash is removed
	if cfg.CatalogBaseURL != "https://radio.example.com/catalog" {
		t.Errorf("CatalogBaseURL = %q, want trailing slash trimmed", cfg.CatalogBaseURL)
	}

	if cfg.Theme.Accent != "#7aa2f7" {
		t.Errorf("Theme.Accent = %q, want %q", cfg.Theme.Accent, "#7aa2f7")
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	chtemp(t)

	if err := os.WriteFile("config.toml", []byte("invalid = [[["), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid TOML, got nil")
	}
}
