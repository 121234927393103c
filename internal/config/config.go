// Package config provides configuration loading and management for the seeding sync engine.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/seedsync/internal/telemetry"
)

const (
	// DefaultEndpoint is the platform GraphQL endpoint used when none is configured
	DefaultEndpoint = "https://api.start.gg/gql/alpha"

	// DefaultPerPage is the number of entrants requested per page
	DefaultPerPage = 64

	// DefaultMaxAttempts bounds the rate-limit retries for a single page
	DefaultMaxAttempts = 5

	// DefaultRetryAfter is the wait applied when a rate-limit response carries no hint
	DefaultRetryAfter = 60 * time.Second

	// DefaultRequestTimeout is the timeout of a single platform request
	DefaultRequestTimeout = 30 * time.Second

	// DefaultPauseBetweenEvents is the pause applied between sequential event syncs
	DefaultPauseBetweenEvents = 2 * time.Second

	// MinDatabaseConns is the smallest usable pool size for a sync run
	MinDatabaseConns = 2

	// EnvPrefix is the prefix of every seedsync environment variable
	EnvPrefix = "SEEDSYNC"

	// TokenEnvVar holds the platform API token when no token file is configured
	TokenEnvVar = "SEEDSYNC_PLATFORM_TOKEN"

	// DatabasePasswordEnvVar holds the database password when no password file is configured
	DatabasePasswordEnvVar = "SEEDSYNC_DATABASE_PASSWORD"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// EvalSymlinks also cleans the path.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Platform configures access to the tournament platform API
	Platform PlatformConfig `yaml:"platform"`

	// Database configures the PostgreSQL store.
	// When omitted, an in-memory store is used and nothing is persisted between runs.
	Database *DatabaseConfig `yaml:"database,omitempty"`

	// Sync configures how batches of events are synchronized
	Sync *SyncConfig `yaml:"sync,omitempty"`

	// Telemetry configures OpenTelemetry instrumentation
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// PlatformConfig defines how entrants are fetched from the platform
type PlatformConfig struct {
	// Endpoint is the GraphQL endpoint URL
	Endpoint string `yaml:"endpoint,omitempty"`

	// TokenFile is the path to a file containing the API bearer token
	TokenFile string `yaml:"tokenFile,omitempty"`

	// PerPage is the page size requested from the platform
	PerPage int `yaml:"perPage,omitempty"`

	// MaxAttempts bounds the attempts for a single page while rate limited.
	// Zero uses DefaultMaxAttempts, a negative value retries without bound.
	MaxAttempts int `yaml:"maxAttempts,omitempty"`

	// DefaultRetryAfter is the wait applied when the platform does not say how long to back off (e.g., "60s")
	DefaultRetryAfter string `yaml:"defaultRetryAfter,omitempty"`

	// Timeout is the per-request timeout (e.g., "30s")
	Timeout string `yaml:"timeout,omitempty"`
}

// SyncConfig defines batch sync behaviour
type SyncConfig struct {
	// PauseBetweenEvents is the pause between sequential event syncs (e.g., "2s")
	PauseBetweenEvents string `yaml:"pauseBetweenEvents,omitempty"`

	// StatusDir keeps per-event sync statuses on disk when no database is configured
	StatusDir string `yaml:"statusDir,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database.
	// A sync holds one connection for the event lock while it queries on another.
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MaxIdleConns is the minimum number of idle connections kept in the pool
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetToken returns the platform token, read from TokenFile when set and
// from the SEEDSYNC_PLATFORM_TOKEN environment variable otherwise.
func (p *PlatformConfig) GetToken() (string, error) {
	if p.TokenFile != "" {
		data, err := os.ReadFile(filepath.Clean(p.TokenFile))
		if err != nil {
			return "", fmt.Errorf("failed to read token from file %s: %w", p.TokenFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if token := os.Getenv(TokenEnvVar); token != "" {
		return token, nil
	}

	return "", fmt.Errorf("no platform token configured: set tokenFile or %s environment variable", TokenEnvVar)
}

// GetEndpoint returns the endpoint, using default if not specified
func (p *PlatformConfig) GetEndpoint() string {
	if p.Endpoint == "" {
		return DefaultEndpoint
	}
	return p.Endpoint
}

// GetPerPage returns the page size, using default if not specified
func (p *PlatformConfig) GetPerPage() int {
	if p.PerPage <= 0 {
		return DefaultPerPage
	}
	return p.PerPage
}

// GetMaxAttempts returns the attempt bound for a page; 0 means unbounded
func (p *PlatformConfig) GetMaxAttempts() uint {
	switch {
	case p.MaxAttempts < 0:
		return 0
	case p.MaxAttempts == 0:
		return DefaultMaxAttempts
	default:
		return uint(p.MaxAttempts)
	}
}

// GetDefaultRetryAfter returns the fallback rate-limit wait
func (p *PlatformConfig) GetDefaultRetryAfter() time.Duration {
	return parseDurationOr(p.DefaultRetryAfter, DefaultRetryAfter)
}

// GetTimeout returns the per-request timeout
func (p *PlatformConfig) GetTimeout() time.Duration {
	return parseDurationOr(p.Timeout, DefaultRequestTimeout)
}

// GetPauseBetweenEvents returns the pause between sequential event syncs
func (c *Config) GetPauseBetweenEvents() time.Duration {
	if c.Sync == nil {
		return DefaultPauseBetweenEvents
	}
	return parseDurationOr(c.Sync.PauseBetweenEvents, DefaultPauseBetweenEvents)
}

// GetStatusDir returns the directory for file-backed sync statuses, empty when unset
func (c *Config) GetStatusDir() string {
	if c.Sync == nil {
		return ""
	}
	return c.Sync.StatusDir
}

// parseDurationOr parses value, returning fallback when empty or invalid.
// Invalid values are rejected earlier by validate.
func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from SEEDSYNC_DATABASE_PASSWORD environment variable
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		data, err := os.ReadFile(filepath.Clean(d.PasswordFile))
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(DatabasePasswordEnvVar); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s environment variable", DatabasePasswordEnvVar,
	)
}

// GetConnectionString builds a PostgreSQL connection string with the password URL-escaped.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)

	return connString, nil
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error

	if err := validatePlatform(&c.Platform); err != nil {
		errs = append(errs, err)
	}

	if c.Database != nil {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Sync != nil {
		if err := validateDuration(c.Sync.PauseBetweenEvents, "sync.pauseBetweenEvents"); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

func validatePlatform(p *PlatformConfig) error {
	var errs []error

	if p.Endpoint != "" {
		u, err := url.Parse(p.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("platform.endpoint must be an absolute URL, got %q", p.Endpoint))
		}
	}

	if p.PerPage < 0 {
		errs = append(errs, fmt.Errorf("platform.perPage must not be negative"))
	}

	if err := validateDuration(p.DefaultRetryAfter, "platform.defaultRetryAfter"); err != nil {
		errs = append(errs, err)
	}
	if err := validateDuration(p.Timeout, "platform.timeout"); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateDatabase(d *DatabaseConfig) error {
	var errs []error

	if d.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if d.Port <= 0 || d.Port > 65535 {
		errs = append(errs, fmt.Errorf("database.port must be between 1 and 65535"))
	}
	if d.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}
	if d.Database == "" {
		errs = append(errs, fmt.Errorf("database.database is required"))
	}
	if d.MaxOpenConns < 0 || (d.MaxOpenConns > 0 && d.MaxOpenConns < MinDatabaseConns) {
		errs = append(errs, fmt.Errorf("database.maxOpenConns must be 0 (default) or at least %d", MinDatabaseConns))
	}
	if err := validateDuration(d.ConnMaxLifetime, "database.connMaxLifetime"); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateDuration(value, field string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, value, err)
	}
	if d < 0 {
		return fmt.Errorf("%s: must not be negative", field)
	}
	return nil
}
