package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lusogate/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from file and environment variables.
// A .env file in the working directory is applied to the environment first.
func Load(configPath string) (*models.Config, error) {
	// Missing .env is the normal case outside local development
	_ = godotenv.Load()

	config := models.NewDefaultConfig()

	if configPath != "" {
		if err := loadFromFile(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	loadFromEnvironment(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// deprecatedConfig mirrors renamed config fields for detecting stale operator configs.
type deprecatedConfig struct {
	Security struct {
		RateLimit interface{} `yaml:"rate_limit"`
	} `yaml:"security"`
	Cache struct {
		Redis interface{} `yaml:"redis"`
	} `yaml:"cache"`
}

// warnDeprecatedKeys logs a warning for each renamed config key found in the YAML data.
// These keys are ignored by the main decoder.
func warnDeprecatedKeys(data []byte) {
	var dep deprecatedConfig
	if err := yaml.Unmarshal(data, &dep); err != nil {
		return
	}
	if dep.Security.RateLimit != nil {
		slog.Warn("Config key has moved; use the top-level rate_limit section.", "config_key", "security.rate_limit")
	}
	if dep.Cache.Redis != nil {
		slog.Warn("Config key has moved; use counter_store.redis.", "config_key", "cache.redis")
	}
}

func loadFromFile(config *models.Config, filePath string) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	warnDeprecatedKeys(data)
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func envInt64(key string, target *int64) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*target = n
		}
	}
}

func envDuration(key string, target *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*target = d
		}
	}
}

func envBool(key string, target *bool) {
	if v := os.Getenv(key); v != "" {
		*target = strings.ToLower(v) == "true"
	}
}

func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// loadFromEnvironment applies LUSOGATE_* overrides
func loadFromEnvironment(config *models.Config) {
	// Server configuration
	envInt("LUSOGATE_PORT", &config.Server.Port)
	envString("LUSOGATE_HOST", &config.Server.Host)
	envDuration("LUSOGATE_READ_TIMEOUT", &config.Server.ReadTimeout)
	envDuration("LUSOGATE_WRITE_TIMEOUT", &config.Server.WriteTimeout)
	envDuration("LUSOGATE_IDLE_TIMEOUT", &config.Server.IdleTimeout)
	envBool("LUSOGATE_TLS_ENABLED", &config.Server.TLSEnabled)
	envString("LUSOGATE_TLS_CERT_FILE", &config.Server.TLSCertFile)
	envString("LUSOGATE_TLS_KEY_FILE", &config.Server.TLSKeyFile)
	envBool("LUSOGATE_CORS_ENABLED", &config.Server.CORS.Enabled)

	// Rate limiting
	envBool("LUSOGATE_RATE_LIMIT_ENABLED", &config.RateLimit.Enabled)
	envDuration("LUSOGATE_RATE_LIMIT_WINDOW", &config.RateLimit.Window)
	envDuration("LUSOGATE_RATE_LIMIT_CLEANUP_INTERVAL", &config.RateLimit.CleanupInterval)
	envDuration("LUSOGATE_RATE_LIMIT_IDLE_TIMEOUT", &config.RateLimit.IdleTimeout)
	for _, class := range []string{models.RateClassRead, models.RateClassWrite, models.RateClassMessaging} {
		key := "LUSOGATE_RATE_LIMIT_" + strings.ToUpper(class)
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				if config.RateLimit.Classes == nil {
					config.RateLimit.Classes = make(map[string]int)
				}
				config.RateLimit.Classes[class] = n
			}
		}
	}

	// Counter store
	envString("LUSOGATE_COUNTER_STORE_TYPE", &config.CounterStore.Type)
	envString("LUSOGATE_REDIS_ADDR", &config.CounterStore.Redis.Addr)
	envString("LUSOGATE_REDIS_PASSWORD", &config.CounterStore.Redis.Password)
	envInt("LUSOGATE_REDIS_DB", &config.CounterStore.Redis.DB)
	envInt("LUSOGATE_REDIS_POOL_SIZE", &config.CounterStore.Redis.PoolSize)
	envString("LUSOGATE_REDIS_KEY_PREFIX", &config.CounterStore.Redis.KeyPrefix)

	// Storage configuration
	envString("LUSOGATE_STORAGE_TYPE", &config.Storage.Type)
	envString("LUSOGATE_STORAGE_PATH", &config.Storage.Path)
	envString("LUSOGATE_DATABASE_DSN", &config.Storage.Database.DSN)
	envInt("LUSOGATE_DATABASE_MAX_OPEN_CONNS", &config.Storage.Database.MaxOpenConns)
	envInt("LUSOGATE_DATABASE_MAX_IDLE_CONNS", &config.Storage.Database.MaxIdleConns)

	// Validation
	envInt64("LUSOGATE_MAX_BODY_BYTES", &config.Validation.MaxBodyBytes)
	envInt64("LUSOGATE_MAX_UPLOAD_BYTES", &config.Validation.MaxUploadBytes)
	envInt("LUSOGATE_SENSITIVE_PENALTY", &config.Validation.SensitivePenalty)
	envInt("LUSOGATE_SENSITIVE_THRESHOLD", &config.Validation.SensitiveThreshold)
	envString("LUSOGATE_DEFAULT_LANGUAGE", &config.Validation.DefaultLanguage)
	if terms := os.Getenv("LUSOGATE_SENSITIVE_TERMS"); terms != "" {
		config.Validation.SensitiveTerms = nil
		for _, term := range strings.Split(terms, ";") {
			if term = strings.TrimSpace(term); term != "" {
				config.Validation.SensitiveTerms = append(config.Validation.SensitiveTerms, term)
			}
		}
	}

	// Logging configuration
	envString("LUSOGATE_LOG_LEVEL", &config.Logging.Level)
	envString("LUSOGATE_LOG_FORMAT", &config.Logging.Format)
	envString("LUSOGATE_LOG_OUTPUT", &config.Logging.Output)
	envString("LUSOGATE_LOG_FILE_PATH", &config.Logging.FilePath)

	// Metrics configuration
	envBool("LUSOGATE_METRICS_ENABLED", &config.Metrics.Enabled)
	envString("LUSOGATE_METRICS_PATH", &config.Metrics.Path)
	envInt("LUSOGATE_METRICS_PORT", &config.Metrics.Port)

	// Observability
	envString("LUSOGATE_SERVICE_NAME", &config.Observability.ServiceName)
	envBool("LUSOGATE_TRACING_ENABLED", &config.Observability.Tracing.Enabled)
	envString("LUSOGATE_TRACING_EXPORTER", &config.Observability.Tracing.Exporter)
	envString("LUSOGATE_OTLP_ENDPOINT", &config.Observability.Tracing.OTLPEndpoint)
	if rate := os.Getenv("LUSOGATE_TRACING_SAMPLE_RATE"); rate != "" {
		if f, err := strconv.ParseFloat(rate, 64); err == nil {
			config.Observability.Tracing.SampleRate = f
		}
	}
}

// SaveExample saves an example configuration file
func SaveExample(filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	config := models.NewDefaultConfig()

	config.CounterStore.Type = models.CounterStoreRedis
	config.Storage.Type = models.StorageTypeSQLite
	config.Storage.Database.DSN = "./data/lusogate.db"
	config.Server.TLSCertFile = "/path/to/cert.pem"
	config.Server.TLSKeyFile = "/path/to/key.pem"

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
