package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in the working directory.
const FileName = "densurf.yaml"

// Load loads configuration with priority: defaults < file < flags.
// fs may be nil, in which case only defaults and a discovered file apply.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	// explicit path takes priority
	configPath := ConfigPath(fs)
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	if err := applyFlags(cfg, fs); err != nil {
		return nil, fmt.Errorf("applying flags: %w", err)
	}

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "densurf")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "densurf")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "densurf")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "densurf")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
