package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperengineering/folio/internal/validation"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Content ContentConfig `yaml:"content"`
	Index   IndexConfig   `yaml:"index"`
	Site    SiteConfig    `yaml:"site"`
	Watch   WatchConfig   `yaml:"watch"`
	Export  ExportConfig  `yaml:"export"`
	Publish PublishConfig `yaml:"publish"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// ContentConfig locates the content tree.
type ContentConfig struct {
	// Root holds one directory per collection.
	Root string `yaml:"root"`
}

// IndexConfig contains query index settings.
type IndexConfig struct {
	// DSN is the SQLite data source. ":memory:" keeps the index in memory.
	DSN string `yaml:"dsn"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// WatchConfig contains content watcher settings.
type WatchConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Debounce Duration `yaml:"debounce"`
}

// ExportConfig contains static export settings.
type ExportConfig struct {
	Dir string `yaml:"dir"`

	// Interval between exports while serving. Zero disables periodic export.
	Interval Duration `yaml:"interval"`
}

// PublishConfig contains S3-compatible object storage settings for exported
// files. An empty bucket disables publishing.
type PublishConfig struct {
	Bucket    string `yaml:"bucket"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	UseSSL    *bool  `yaml:"use_ssl"`
	AccessKey string `yaml:"-"` // env-only
	SecretKey string `yaml:"-"` // env-only
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	APIKey string `yaml:"-"` // env-only, never in YAML
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
// The API key is required unless FOLIO_DEV_MODE=true.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAuth(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLocal loads configuration like Load but does not require the API key.
// Used by commands that never serve HTTP.
func LoadLocal() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	cfg := newDefaults()

	// Determine config path
	configPath := getEnv("FOLIO_CONFIG_PATH", "config/folio.yaml")

	// Load YAML file if it exists (missing file is not an error)
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	// Load YAML file (file must exist for this function)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Content: ContentConfig{
			Root: "content",
		},
		Index: IndexConfig{
			DSN: ":memory:",
		},
		Site: SiteConfig{
			URL:   "http://localhost:8080",
			Title: "Portfolio",
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: Duration(500 * time.Millisecond),
		},
		Export: ExportConfig{
			Dir: "dist",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
// Missing file is not an error; we just use defaults.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing file is OK; use defaults
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("FOLIO_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	envDuration("FOLIO_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("FOLIO_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("FOLIO_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	// Content and index
	if v := os.Getenv("FOLIO_CONTENT_ROOT"); v != "" {
		cfg.Content.Root = v
	}
	if v := os.Getenv("FOLIO_INDEX_DSN"); v != "" {
		cfg.Index.DSN = v
	}

	// Site
	if v := os.Getenv("FOLIO_SITE_URL"); v != "" {
		cfg.Site.URL = v
	}
	if v := os.Getenv("FOLIO_SITE_TITLE"); v != "" {
		cfg.Site.Title = v
	}
	if v := os.Getenv("FOLIO_SITE_DESCRIPTION"); v != "" {
		cfg.Site.Description = v
	}

	// Watch
	if v := os.Getenv("FOLIO_WATCH_ENABLED"); v != "" {
		cfg.Watch.Enabled = v == "true" || v == "1"
	}
	envDuration("FOLIO_WATCH_DEBOUNCE", &cfg.Watch.Debounce)

	// Export
	if v := os.Getenv("FOLIO_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	envDuration("FOLIO_EXPORT_INTERVAL", &cfg.Export.Interval)

	// Publish
	if v := os.Getenv("FOLIO_PUBLISH_BUCKET"); v != "" {
		cfg.Publish.Bucket = v
	}
	if v := os.Getenv("FOLIO_PUBLISH_ENDPOINT"); v != "" {
		cfg.Publish.Endpoint = v
	}
	if v := os.Getenv("FOLIO_PUBLISH_REGION"); v != "" {
		cfg.Publish.Region = v
	}
	if v := os.Getenv("FOLIO_PUBLISH_PREFIX"); v != "" {
		cfg.Publish.Prefix = v
	}
	if v := os.Getenv("FOLIO_PUBLISH_USE_SSL"); v != "" {
		useSSL := v == "true" || v == "1"
		cfg.Publish.UseSSL = &useSSL
	}
	if v := os.Getenv("FOLIO_PUBLISH_ACCESS_KEY"); v != "" {
		cfg.Publish.AccessKey = v
	}
	if v := os.Getenv("FOLIO_PUBLISH_SECRET_KEY"); v != "" {
		cfg.Publish.SecretKey = v
	}

	// Log
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FOLIO_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// Auth
	if v := os.Getenv("FOLIO_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func envDuration(key string, dst *Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = Duration(d)
		}
	}
}

// validate checks that configuration values are usable.
func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Content.Root == "" {
		return errors.New("content.root is required")
	}
	if err := validation.ValidateURL("site.url", c.Site.URL); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return errors.New("watch.debounce must not be negative")
	}
	if c.Export.Interval < 0 {
		return errors.New("export.interval must not be negative")
	}
	if c.Publish.Bucket != "" && c.Publish.Endpoint == "" {
		return errors.New("publish.endpoint is required when publish.bucket is set")
	}
	return nil
}

// validateAuth checks that the API key is set.
// In dev mode (FOLIO_DEV_MODE=true), API key validation is skipped.
func (c *Config) validateAuth() error {
	if os.Getenv("FOLIO_DEV_MODE") == "true" {
		return nil
	}
	if c.Auth.APIKey == "" {
		return errors.New("FOLIO_API_KEY is required")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
