package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/env"
	"gopkg.in/yaml.v3"
)

// Config represents the cukefmt configuration
type Config struct {
	Formats       []string       `json:"formats,omitempty" yaml:"formats,omitempty"`             // type[:outfile]
	FormatOptions map[string]any `json:"formatOptions,omitempty" yaml:"formatOptions,omitempty"` // merged into every formatter's options
	Cwd           string         `json:"cwd,omitempty" yaml:"cwd,omitempty"`
	NoColor       *bool          `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	LogLevel      string         `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".cukefmt.config.json",
	"cukefmt.config.json",
	".cukefmt.yml",
	".cukefmt.yaml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.expandEnv(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to expand config %s: %w", path, err)
	}
	return config, nil
}

// expandEnv resolves ${VAR} references in string settings. A .env file in
// dir supplies variables the process environment lacks.
func (c *Config) expandEnv(dir string) error {
	dotenv, err := env.LoadDotEnv(filepath.Join(dir, env.DotEnvFilename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	lookup := env.Lookup(dotenv)

	for i, f := range c.Formats {
		if c.Formats[i], err = env.Expand(f, lookup); err != nil {
			return err
		}
	}
	if c.Cwd, err = env.Expand(c.Cwd, lookup); err != nil {
		return err
	}
	if c.FormatOptions != nil {
		expanded, err := env.ExpandValue(c.FormatOptions, lookup)
		if err != nil {
			return err
		}
		c.FormatOptions = expanded.(map[string]any)
	}
	return nil
}

// Merge merges another config into this one, with other taking precedence.
// Format options are merged key by key.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if len(other.Formats) > 0 {
		result.Formats = other.Formats
	}
	if other.Cwd != "" {
		result.Cwd = other.Cwd
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	// only override if explicitly set in other config
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.FormatOptions) > 0 {
		merged := make(map[string]any, len(c.FormatOptions)+len(other.FormatOptions))
		for k, v := range c.FormatOptions {
			merged[k] = v
		}
		for k, v := range other.FormatOptions {
			merged[k] = v
		}
		result.FormatOptions = merged
	}

	return &result
}

// SaveConfig saves the configuration to a file, as YAML when the file
// name says so.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
