package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notegraph/internal/filter"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Filter FilterConfig      `yaml:"filter"`
	Watch  WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Filter.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig holds the path to the Markdown vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// FilterConfig holds query defaults.
type FilterConfig struct {
	// DefaultMode combines predicates when a request names no mode: "all" or "any".
	DefaultMode string `yaml:"default_mode"`
}

// Validate validates the filter configuration. An empty mode becomes "all".
func (c *FilterConfig) Validate() error {
	if c.DefaultMode == "" {
		c.DefaultMode = filter.ModeAll.String()
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.DefaultMode, validation.By(func(v interface{}) error {
			_, err := filter.ParseMode(v.(string))
			return err
		})),
	)
}

// Mode returns the parsed default mode.
func (c *FilterConfig) Mode() filter.Mode {
	m, _ := filter.ParseMode(c.DefaultMode)
	return m
}

// WatchConfig controls live reloading of the vault.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
	// EventThrottle is the minimum gap between graph.updated events.
	EventThrottle time.Duration `yaml:"event_throttle"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.EventThrottle, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		SQLite: SQLiteConfig{
			Path: "./notegraph.db",
		},
		Filter: FilterConfig{
			DefaultMode: filter.ModeAll.String(),
		},
		Watch: WatchConfig{
			Enabled:       true,
			EventThrottle: 2 * time.Second,
		},
	}
}
