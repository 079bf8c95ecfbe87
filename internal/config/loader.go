package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first config file found, or returns defaults when there is
// none. Environment overrides are applied in both cases.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if cfg, err = Parse(f); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".annotatorrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	xdgPath := DefaultPath()
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

// DefaultPath is where `config save` writes when no path is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "annotator", "config.rc")
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	// 0600: the file may hold an access token.
	if err := os.WriteFile(path, []byte(cfg.String()), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
