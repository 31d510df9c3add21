// Package config reads the advtxt configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Storage selects and parameterizes a persistence backend.
type Storage struct {
	// Backend is one of "memory", "bolt", "postgres".
	Backend string `yaml:"backend"`
	// Path is the database file for the bolt backend.
	Path string `yaml:"path"`
	// DSN is the connection string for the postgres backend.
	DSN string `yaml:"dsn"`
}

// Config is the full application configuration.
type Config struct {
	// Language selects the parser lexicon. Only "en" is shipped.
	Language string `yaml:"language"`
	// Map is the namespace players are resolved in.
	Map string `yaml:"map"`
	// WorldDir holds the Lua world files used for seeding.
	WorldDir string `yaml:"world_dir"`
	// Listen is the WebSocket server address.
	Listen  string  `yaml:"listen"`
	Storage Storage `yaml:"storage"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Language: "en",
		Map:      "default",
		Listen:   ":8900",
		Storage: Storage{
			Backend: "bolt",
			Path:    "advtxt.db",
		},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Storage.Backend {
	case "memory", "bolt", "postgres":
	default:
		return nil, fmt.Errorf("config %s: unknown storage backend %q", path, cfg.Storage.Backend)
	}
	return cfg, nil
}
