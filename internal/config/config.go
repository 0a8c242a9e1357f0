package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/xolan/grind/internal/timeutil"
)

const (
	// AppName is the application name used for config and data directories
	AppName = "grind"
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
	// DatabaseFile is the default database file name
	DatabaseFile = "grindstone.db"
)

// Config represents the application configuration
type Config struct {
	// DatabasePath overrides the database file location (empty = default data dir)
	DatabasePath string `toml:"database_path"`
	// Timezone defines the timezone for time operations (IANA timezone name, e.g., "America/New_York")
	Timezone string `toml:"timezone"`
	// DefaultPeriod is the period used by stats and report when none is given
	DefaultPeriod string `toml:"default_period"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DatabasePath:  "",
		Timezone:      "Local",
		DefaultPeriod: "today",
	}
}

// Normalize trims and lowercases fields that are compared case-insensitively.
func (c *Config) Normalize() {
	c.DatabasePath = strings.TrimSpace(c.DatabasePath)
	c.Timezone = strings.TrimSpace(c.Timezone)
	c.DefaultPeriod = strings.ToLower(strings.TrimSpace(c.DefaultPeriod))
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.DefaultPeriod != "" {
		if _, err := timeutil.ParsePeriod(c.DefaultPeriod); err != nil {
			return fmt.Errorf("invalid default_period: %w", err)
		}
	}
	if c.Timezone != "" && c.Timezone != "Local" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
	}
	return nil
}

// Load reads and validates the config file at the given path. Fields
// absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, err
		}
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config file if it exists, and returns the
// defaults when it does not. Parse and validation errors are reported,
// never silently swallowed.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	return Load(path)
}

// GetConfigPath returns the path to the config file, creating the
// application config directory if needed.
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	appDir := filepath.Join(configDir, AppName)
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, ConfigFile), nil
}

// ResolveDatabasePath returns the database location: the configured
// override if set, otherwise DatabaseFile in the user data directory.
func (c Config) ResolveDatabasePath() (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dataDir := filepath.Join(home, ".local", "share", AppName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dataDir, DatabaseFile), nil
}

// Location resolves the configured timezone. "Local" and empty both
// mean the system timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GenerateSampleConfig returns a commented sample config file.
func GenerateSampleConfig() string {
	return `# grind configuration file
#
# All settings are optional; the defaults below apply when omitted.

# Where to keep the task database. Defaults to the user data directory.
# database_path = "/home/you/.local/share/grind/grindstone.db"

# Timezone for timestamps and period boundaries.
# Valid values: "Local" or an IANA name like "America/New_York",
# "Europe/London", "Asia/Tokyo".
# timezone = "Local"

# Period shown by stats and report when none is given.
# Valid values: today, yesterday, week, last-week, month, last-month,
# year, last-year.
# default_period = "today"
`
}
