// Package config handles promptdeck configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted before the config file.
const (
	// EnvLibraryDir overrides the library directory.
	EnvLibraryDir = "PROMPTDECK_DIR"
	// EnvConfigFile points at an explicit config file.
	EnvConfigFile = "PROMPTDECK_CONFIG"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag or PROMPTDECK_CONFIG) is checked
// first. Then: ./promptdeck.yaml, ~/.config/promptdeck/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"promptdeck.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "promptdeck", "config.yaml"))
	}

	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfigFile)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all promptdeck configuration.
type Config struct {
	// LibraryDir is where the element and history tables live.
	// PROMPTDECK_DIR takes precedence; empty falls back to ~/.promptdeck.
	LibraryDir string `yaml:"library_dir"`

	// PageTitle is shown in the TUI header and served page metadata.
	PageTitle string `yaml:"page_title"`

	// WideLayout stretches the TUI to the full terminal width instead of
	// capping content at a readable column.
	WideLayout bool `yaml:"wide_layout"`

	// RequestFeedback presets the builder's recursive feedback toggle.
	RequestFeedback bool `yaml:"request_feedback"`

	Server   ServerConfig `yaml:"server"`
	Git      GitConfig    `yaml:"git"`
	LogLevel string       `yaml:"log_level"`
}

// ServerConfig defines the HTTP API server settings.
type ServerConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
}

// GitConfig controls git synchronization of the library directory.
type GitConfig struct {
	// AutoSync commits and pushes the library after every CLI mutation.
	// Requires a repository set up with `promptdeck git setup`.
	AutoSync bool `yaml:"auto_sync"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads the first config file found, or returns defaults
// when no file exists. Only an unreadable or malformed file is an error.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := FindConfig(explicit)
	if err != nil {
		if explicit != "" || os.Getenv(EnvConfigFile) != "" {
			return nil, err
		}
		return Default(), nil
	}
	return Load(path)
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		PageTitle: "Promptdeck",
		Server:    ServerConfig{Port: 8080},
		LogLevel:  "info",
	}
}

// ResolveLibraryDir applies the directory precedence: environment
// variable, then config file, then empty for the built-in default.
func (c *Config) ResolveLibraryDir() string {
	if dir := os.Getenv(EnvLibraryDir); dir != "" {
		return dir
	}
	return c.LibraryDir
}
