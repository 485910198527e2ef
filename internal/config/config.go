// Package config loads fdk settings from .fdk/config.yaml or .fdk/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/moby/sys/atomicwriter"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Dir is the per-project settings directory.
const Dir = ".fdk"

// Config holds all fdk configuration.
type Config struct {
	Project   ProjectConfig   `yaml:"project" toml:"project"`
	Stores    StoresConfig    `yaml:"stores" toml:"stores"`
	Reconcile ReconcileConfig `yaml:"reconcile" toml:"reconcile"`
	Release   ReleaseConfig   `yaml:"release" toml:"release"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// ReconcileConfig controls how corrective writes are made.
type ReconcileConfig struct {
	Mode     string `yaml:"mode" toml:"mode"` // interactive, auto
	Rollback bool   `yaml:"rollback" toml:"rollback"`
}

// ReleaseConfig configures release tagging.
type ReleaseConfig struct {
	Remote string `yaml:"remote" toml:"remote"`
}

const (
	ModeInteractive = "interactive"
	ModeAuto        = "auto"
)

// ValidModes lists the accepted reconcile.mode values.
var ValidModes = []string{ModeInteractive, ModeAuto}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Project: DefaultProjectConfig(),
		Stores: StoresConfig{
			GooglePlay: GooglePlayConfig{Enabled: true},
			AppStore:   AppStoreConfig{Enabled: true, Country: "us"},
			Timeout:    "10s",
		},
		Reconcile: ReconcileConfig{Mode: ModeInteractive},
		Release:   ReleaseConfig{Remote: "origin"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the YAML config path under root.
func DefaultPath(root string) string {
	return filepath.Join(root, Dir, "config.yaml")
}

// Find returns the config file used for root: config.yaml if present, then
// config.toml, otherwise the default YAML path.
func Find(root string) string {
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		path := filepath.Join(root, Dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return DefaultPath(root)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads the config at path, falling back to defaults when the file does
// not exist. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		if isTOML(path) {
			err = toml.Unmarshal(data, cfg)
		} else {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the config to path in the format implied by its extension.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicwriter.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if pkg := os.Getenv("FDK_ANDROID_PACKAGE"); pkg != "" {
		c.Stores.GooglePlay.PackageID = pkg
	}
	if id := os.Getenv("FDK_IOS_BUNDLE_ID"); id != "" {
		c.Stores.AppStore.BundleID = id
	}
	if country := os.Getenv("FDK_APPSTORE_COUNTRY"); country != "" {
		c.Stores.AppStore.Country = country
	}
	if timeout := os.Getenv("FDK_STORE_TIMEOUT"); timeout != "" {
		c.Stores.Timeout = timeout
	}
	if level := os.Getenv("FDK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	// CI runners have no operator to confirm writes.
	switch strings.ToLower(os.Getenv("CI")) {
	case "true", "1", "yes":
		c.Reconcile.Mode = ModeAuto
	}
}

// StoreTimeout returns the per-store fetch timeout.
func (c *Config) StoreTimeout() time.Duration {
	d, err := time.ParseDuration(c.Stores.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// IsAuto reports whether corrective writes skip confirmation.
func (c *Config) IsAuto() bool {
	return c.Reconcile.Mode == ModeAuto
}

// Validate checks the config for values Load cannot reject on its own.
func (c *Config) Validate() error {
	if !slices.Contains(ValidModes, c.Reconcile.Mode) {
		return fmt.Errorf("invalid reconcile mode: %s (valid: %v)", c.Reconcile.Mode, ValidModes)
	}

	if c.Stores.Timeout != "" {
		d, err := time.ParseDuration(c.Stores.Timeout)
		if err != nil {
			return fmt.Errorf("invalid store timeout %q: %w", c.Stores.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("store timeout must be positive, got %s", d)
		}
	}

	return c.Logging.Validate()
}
