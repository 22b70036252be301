package config

// DefaultFormat is used when no format is configured
const DefaultFormat = "progress"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Formats:  []string{DefaultFormat},
		LogLevel: "warn",
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return len(c.Formats) == 1 && c.Formats[0] == DefaultFormat &&
		len(c.FormatOptions) == 0 &&
		c.Cwd == defaults.Cwd &&
		c.NoColor == nil &&
		c.LogLevel == defaults.LogLevel
}
