package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/seedsync/internal/telemetry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		yamlContent string
		wantConfig  *Config
		wantErr     string
	}{
		{
			name: "full_config",
			yamlContent: `platform:
  endpoint: https://api.example.com/gql
  tokenFile: /run/secrets/token
  perPage: 32
  maxAttempts: 3
  defaultRetryAfter: 10s
  timeout: 5s
database:
  host: localhost
  port: 5432
  user: seedsync
  database: seedsync
  sslMode: disable
sync:
  pauseBetweenEvents: 500ms
  statusDir: /var/lib/seedsync
telemetry:
  enabled: true
  metrics:
    enabled: true`,
			wantConfig: &Config{
				Platform: PlatformConfig{
					Endpoint:          "https://api.example.com/gql",
					TokenFile:         "/run/secrets/token",
					PerPage:           32,
					MaxAttempts:       3,
					DefaultRetryAfter: "10s",
					Timeout:           "5s",
				},
				Database: &DatabaseConfig{
					Host:     "localhost",
					Port:     5432,
					User:     "seedsync",
					Database: "seedsync",
					SSLMode:  "disable",
				},
				Sync: &SyncConfig{PauseBetweenEvents: "500ms", StatusDir: "/var/lib/seedsync"},
				Telemetry: &telemetry.Config{
					Enabled: true,
					Metrics: &telemetry.MetricsConfig{Enabled: true},
				},
			},
		},
		{
			name:        "minimal_config",
			yamlContent: `platform: {}`,
			wantConfig:  &Config{},
		},
		{
			name: "invalid_endpoint",
			yamlContent: `platform:
  endpoint: not-a-url`,
			wantErr: "platform.endpoint must be an absolute URL",
		},
		{
			name: "invalid_retry_after",
			yamlContent: `platform:
  defaultRetryAfter: soon`,
			wantErr: "platform.defaultRetryAfter",
		},
		{
			name: "database_missing_fields",
			yamlContent: `database:
  port: 5432`,
			wantErr: "database.host is required",
		},
		{
			name: "database_single_connection",
			yamlContent: `database:
  host: localhost
  port: 5432
  user: seedsync
  database: seedsync
  maxOpenConns: 1`,
			wantErr: "database.maxOpenConns must be 0 (default) or at least 2",
		},
		{
			name: "negative_pause",
			yamlContent: `sync:
  pauseBetweenEvents: -1s`,
			wantErr: "sync.pauseBetweenEvents: must not be negative",
		},
		{
			name:        "invalid_yaml",
			yamlContent: "platform: [",
			wantErr:     "failed to parse YAML config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, tt.yamlContent)
			cfg, err := LoadConfig(WithConfigPath(path))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, cfg)
		})
	}
}

func TestLoadConfig_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")

	_, err = LoadConfig(WithConfigPath(""))
	require.Error(t, err)

	_, err = LoadConfig(WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to evaluate symlinks")
}

func TestPlatformConfig_Defaults(t *testing.T) {
	t.Parallel()

	p := &PlatformConfig{}
	assert.Equal(t, DefaultEndpoint, p.GetEndpoint())
	assert.Equal(t, DefaultPerPage, p.GetPerPage())
	assert.Equal(t, uint(DefaultMaxAttempts), p.GetMaxAttempts())
	assert.Equal(t, DefaultRetryAfter, p.GetDefaultRetryAfter())
	assert.Equal(t, DefaultRequestTimeout, p.GetTimeout())

	p = &PlatformConfig{MaxAttempts: -1, PerPage: 10, DefaultRetryAfter: "3s"}
	assert.Equal(t, uint(0), p.GetMaxAttempts())
	assert.Equal(t, 10, p.GetPerPage())
	assert.Equal(t, 3*time.Second, p.GetDefaultRetryAfter())

	cfg := &Config{}
	assert.Equal(t, DefaultPauseBetweenEvents, cfg.GetPauseBetweenEvents())
	cfg.Sync = &SyncConfig{PauseBetweenEvents: "0s"}
	assert.Equal(t, time.Duration(0), cfg.GetPauseBetweenEvents())
	assert.Empty(t, cfg.GetStatusDir())
}

func TestPlatformConfig_GetToken(t *testing.T) {
	t.Run("reads token file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("  secret-token\n"), 0600))

		p := &PlatformConfig{TokenFile: path}
		token, err := p.GetToken()
		require.NoError(t, err)
		assert.Equal(t, "secret-token", token)
	})

	t.Run("falls back to environment", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "env-token")

		p := &PlatformConfig{}
		token, err := p.GetToken()
		require.NoError(t, err)
		assert.Equal(t, "env-token", token)
	})

	t.Run("errors when nothing configured", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "")

		p := &PlatformConfig{}
		_, err := p.GetToken()
		require.Error(t, err)
		assert.Contains(t, err.Error(), TokenEnvVar)
	})

	t.Run("errors on missing file", func(t *testing.T) {
		p := &PlatformConfig{TokenFile: filepath.Join(t.TempDir(), "nope")}
		_, err := p.GetToken()
		require.Error(t, err)
	})
}

func TestDatabaseConfig_GetConnectionString(t *testing.T) {
	t.Run("escapes password and defaults sslmode", func(t *testing.T) {
		t.Setenv(DatabasePasswordEnvVar, "p@ss/word")

		d := &DatabaseConfig{Host: "db", Port: 5432, User: "app", Database: "seeds"}
		conn, err := d.GetConnectionString()
		require.NoError(t, err)
		assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/seeds?sslmode=require", conn)
	})

	t.Run("password file wins over environment", func(t *testing.T) {
		t.Setenv(DatabasePasswordEnvVar, "from-env")
		path := filepath.Join(t.TempDir(), "pw")
		require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0600))

		d := &DatabaseConfig{Host: "db", Port: 5432, User: "app", Database: "seeds", PasswordFile: path, SSLMode: "disable"}
		conn, err := d.GetConnectionString()
		require.NoError(t, err)
		assert.Equal(t, "postgres://app:from-file@db:5432/seeds?sslmode=disable", conn)
	})

	t.Run("missing password", func(t *testing.T) {
		t.Setenv(DatabasePasswordEnvVar, "")

		d := &DatabaseConfig{Host: "db", Port: 5432, User: "app", Database: "seeds"}
		_, err := d.GetConnectionString()
		require.Error(t, err)
	})
}
