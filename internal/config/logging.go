package config

import (
	"fmt"
	"slices"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // json, console
	File   string `yaml:"file" toml:"file"`     // optional, stderr is always written
	// Categories disables individual categories when set to false.
	Categories map[string]bool `yaml:"categories,omitempty" toml:"categories,omitempty"`
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"json", "console"}
)

// IsCategoryEnabled returns whether logging is enabled for a category.
// Categories not listed are enabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	enabled, exists := c.Categories[category]
	return !exists || enabled
}

// Validate checks the level and format names.
func (c *LoggingConfig) Validate() error {
	if c.Level != "" && !slices.Contains(validLevels, c.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Level, validLevels)
	}
	if c.Format != "" && !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Format, validFormats)
	}
	return nil
}
