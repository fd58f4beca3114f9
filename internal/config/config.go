// Package config loads pfsheet configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/pfsheet/internal/logging"
)

const appName = "pfsheet"

// Storage backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// MemoryDatabase selects an in-memory database instead of a path.
const MemoryDatabase = ":memory:"

// Config holds all pfsheet configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Export  ExportConfig  `yaml:"export"`
	Dates   DatesConfig   `yaml:"dates"`
	Query   QueryConfig   `yaml:"query"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects the record store.
type StorageConfig struct {
	// Backend is "badger" or "sqlite".
	// Default: badger
	Backend string `yaml:"backend"`

	// Path is the database directory (badger) or file (sqlite), or
	// ":memory:". Empty means the XDG data directory.
	Path string `yaml:"path,omitempty"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	// Dir is where export files are saved. Empty means the XDG data directory.
	Dir string `yaml:"dir,omitempty"`

	// Template is a PF template file whose first 10 lines replace the
	// bundled header block. Empty uses the bundled template.
	Template string `yaml:"template,omitempty"`
}

// DatesConfig holds date interpretation settings.
type DatesConfig struct {
	// Timezone converts numeric timestamps to calendar days.
	// Default: UTC
	Timezone string `yaml:"timezone"`
}

// QueryConfig holds list defaults.
type QueryConfig struct {
	// DefaultLimit is the page size used when a listing gives none.
	// Default: 1000
	DefaultLimit int `yaml:"default_limit"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	// Default: warn
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Backend: BackendBadger},
		Dates:   DatesConfig{Timezone: "UTC"},
		Query:   QueryConfig{DefaultLimit: 1000},
		Log:     LogConfig{Level: "warn"},
	}
}

// DefaultPath returns the config file location under the XDG base directories.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Load reads the config file at path, or DefaultPath when path is empty.
// A missing file yields the defaults. Environment overrides are applied
// after the file and the result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.loadFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// loadFromEnv applies PFSHEET_* environment overrides.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("PFSHEET_DATABASE"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("PFSHEET_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("PFSHEET_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("PFSHEET_TEMPLATE"); v != "" {
		c.Export.Template = v
	}
	if v := os.Getenv("PFSHEET_TIMEZONE"); v != "" {
		c.Dates.Timezone = v
	}
	if v := os.Getenv("PFSHEET_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Query.DefaultLimit = n
		}
	}
	if v := os.Getenv("PFSHEET_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = BackendBadger
	case BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("invalid config: storage.backend %q (want %s or %s)", c.Storage.Backend, BackendBadger, BackendSQLite)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: dates.timezone: %w", err)
	}
	if c.Query.DefaultLimit < 0 {
		return fmt.Errorf("invalid config: query.default_limit must not be negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: log.level: %w", err)
	}
	return nil
}

// Location returns the configured timezone. Empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Dates.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Dates.Timezone)
}

// DatabasePath returns the configured database location, falling back to
// the XDG data directory for the selected backend.
func (c *Config) DatabasePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == BackendSQLite {
		return filepath.Join(xdg.DataHome, appName, "pfsheet.db")
	}
	return filepath.Join(xdg.DataHome, appName, "db")
}

// InMemory reports whether the database lives only for this process.
func (c *Config) InMemory() bool {
	return c.Storage.Path == MemoryDatabase
}

// ExportDir returns the export directory, falling back to the XDG data directory.
func (c *Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return filepath.Join(xdg.DataHome, appName, "exports")
}

// LoggingConfig converts the log section into a logger configuration.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		cfg.Level = level
	}
	cfg.JSON = c.Log.JSON
	return cfg
}
