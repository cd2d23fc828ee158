package app

import (
	"fmt"
	"os"
	"path/filepath"

	"scanrecon/internal/config"
)

// Environment variables that override the default locations.
const (
	EnvConfigPath = "SCANRECON_CONFIG_PATH"
	EnvHome       = "SCANRECON_HOME"
)

// Defaults holds the default locations of the config file and data.
type Defaults struct {
	ConfigPath string
	BaseDir    string
}

// GetDefaults returns the default locations, checking the environment first.
// SCANRECON_CONFIG_PATH overrides ~/.config/scanrecon.toml and
// SCANRECON_HOME overrides ~/.local/share/scanrecon.
func GetDefaults() (*Defaults, error) {
	homeDir, homeErr := os.UserHomeDir()

	d := &Defaults{
		ConfigPath: os.Getenv(EnvConfigPath),
		BaseDir:    os.Getenv(EnvHome),
	}
	if d.ConfigPath == "" {
		if homeErr != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", homeErr)
		}
		d.ConfigPath = filepath.Join(homeDir, ".config", "scanrecon.toml")
	}
	if d.BaseDir == "" {
		if homeErr != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", homeErr)
		}
		d.BaseDir = filepath.Join(homeDir, ".local", "share", "scanrecon")
	}
	return d, nil
}

// NewConfig returns a default config rooted at the base directory.
func (d *Defaults) NewConfig() *config.Config {
	return config.NewConfig(d.BaseDir)
}
