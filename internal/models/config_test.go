package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	// Test server defaults
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 30*time.Second, config.Server.ReadTimeout)
	assert.False(t, config.Server.TLSEnabled)

	// Test rate limit defaults
	assert.True(t, config.RateLimit.Enabled)
	assert.Equal(t, time.Minute, config.RateLimit.Window)
	assert.Equal(t, 10, config.RateLimit.Classes[RateClassWrite])
	assert.Equal(t, 50, config.RateLimit.Classes[RateClassMessaging])
	assert.Equal(t, 100, config.RateLimit.Classes[RateClassRead])
	assert.Equal(t, 5*time.Minute, config.RateLimit.IdleTimeout)

	// Test counter store and storage defaults
	assert.Equal(t, CounterStoreMemory, config.CounterStore.Type)
	assert.Equal(t, "lusogate:ratelimit:", config.CounterStore.Redis.KeyPrefix)
	assert.Equal(t, StorageTypeMemory, config.Storage.Type)
	assert.NotNil(t, config.Storage.Options)

	// Test validation defaults
	assert.Equal(t, int64(1<<20), config.Validation.MaxBodyBytes)
	assert.Equal(t, int64(5<<20), config.Validation.MaxUploadBytes)
	assert.Equal(t, DefaultSensitiveTerms, config.Validation.SensitiveTerms)
	assert.Equal(t, "en", config.Validation.DefaultLanguage)

	// Test logging, metrics and observability defaults
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.True(t, config.Metrics.Enabled)
	assert.Equal(t, 9090, config.Metrics.Port)
	assert.Equal(t, "lusogate", config.Observability.ServiceName)
	assert.False(t, config.Observability.Tracing.Enabled)
}

func TestNewDefaultConfig_TermsAreCopied(t *testing.T) {
	config := NewDefaultConfig()
	config.Validation.SensitiveTerms[0] = "changed"

	assert.Equal(t, `golpe|fraude|esquema`, DefaultSensitiveTerms[0])
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid default config",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid server port",
			mutate:      func(c *Config) { c.Server.Port = -1 },
			expectError: true,
			errorMsg:    "invalid server config",
		},
		{
			name:        "TLS without cert",
			mutate:      func(c *Config) { c.Server.TLSEnabled = true },
			expectError: true,
			errorMsg:    "TLS cert file is required",
		},
		{
			name:        "zero window",
			mutate:      func(c *Config) { c.RateLimit.Window = 0 },
			expectError: true,
			errorMsg:    "window must be positive",
		},
		{
			name:   "zero window with rate limiting disabled",
			mutate: func(c *Config) { c.RateLimit.Enabled = false; c.RateLimit.Window = 0 },
		},
		{
			name:        "missing read class",
			mutate:      func(c *Config) { delete(c.RateLimit.Classes, RateClassRead) },
			expectError: true,
			errorMsg:    `rate class "read" must be configured`,
		},
		{
			name:        "non-positive class limit",
			mutate:      func(c *Config) { c.RateLimit.Classes[RateClassWrite] = 0 },
			expectError: true,
			errorMsg:    `rate class "write" must allow at least one request`,
		},
		{
			name:        "unknown counter store",
			mutate:      func(c *Config) { c.CounterStore.Type = "memcached" },
			expectError: true,
			errorMsg:    "invalid counter store type: memcached",
		},
		{
			name:        "redis without address",
			mutate:      func(c *Config) { c.CounterStore.Type = CounterStoreRedis; c.CounterStore.Redis.Addr = "" },
			expectError: true,
			errorMsg:    "Redis address is required",
		},
		{
			name:        "invalid storage type",
			mutate:      func(c *Config) { c.Storage.Type = "invalid-type" },
			expectError: true,
			errorMsg:    "invalid storage type: invalid-type",
		},
		{
			name:        "postgres without DSN",
			mutate:      func(c *Config) { c.Storage.Type = StorageTypePostgres },
			expectError: true,
			errorMsg:    "database DSN is required",
		},
		{
			name:        "invalid sensitive term",
			mutate:      func(c *Config) { c.Validation.SensitiveTerms = []string{"("} },
			expectError: true,
			errorMsg:    "invalid sensitive term",
		},
		{
			name:        "threshold above 100",
			mutate:      func(c *Config) { c.Validation.SensitiveThreshold = 101 },
			expectError: true,
			errorMsg:    "sensitive threshold must be between 0 and 100",
		},
		{
			name:        "unsupported language",
			mutate:      func(c *Config) { c.Validation.DefaultLanguage = "fr" },
			expectError: true,
			errorMsg:    "invalid default language: fr",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
			errorMsg:    "invalid log level: verbose",
		},
		{
			name:        "file output without path",
			mutate:      func(c *Config) { c.Logging.Output = "file" },
			expectError: true,
			errorMsg:    "file path is required",
		},
		{
			name:        "invalid metrics port",
			mutate:      func(c *Config) { c.Metrics.Port = 70000 },
			expectError: true,
			errorMsg:    "metrics port must be between 1 and 65535",
		},
		{
			name: "otlp without endpoint",
			mutate: func(c *Config) {
				c.Observability.Tracing.Enabled = true
				c.Observability.Tracing.Exporter = "otlp"
			},
			expectError: true,
			errorMsg:    "OTLP endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.expectError {
				assert.Error(t, err)
				if tt.errorMsg != "" {
					assert.Contains(t, err.Error(), tt.errorMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRateLimitConfig_Limit(t *testing.T) {
	rc := NewDefaultConfig().RateLimit

	assert.Equal(t, 10, rc.Limit(RateClassWrite))
	assert.Equal(t, 50, rc.Limit(RateClassMessaging))
	assert.Equal(t, 100, rc.Limit("unknown"))
}
