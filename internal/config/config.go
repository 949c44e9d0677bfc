// Package config handles loading and saving imagetomap settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all settings.
type Config struct {
	// Catalog is the path to a tile catalog, empty for the built-in one.
	Catalog string        `yaml:"catalog"`
	Convert ConvertConfig `yaml:"convert"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds conversion settings.
type ConvertConfig struct {
	Tiles     []string `yaml:"tiles"` // Empty selects every tile
	Dithering bool     `yaml:"dithering"`
	Weighted  bool     `yaml:"weighted"`
	Matrix    string   `yaml:"matrix"`
	Strength  float32  `yaml:"strength"`
}

// OutputConfig holds preview image settings.
type OutputConfig struct {
	Format      string `yaml:"format"`      // png or gif
	Compression string `yaml:"compression"` // default, no, speed or size
	Name        string `yaml:"name"`        // Map name
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Dithering: true,
			Weighted:  false,
			Matrix:    "floydsteinberg",
			Strength:  1,
		},
		Output: OutputConfig{
			Format:      "png",
			Compression: "default",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	// Create parent directory if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
