// Package models - Service configuration and operational settings.
// This file defines the configuration structures for the request guard and the
// services around it.
//
// Configuration Philosophy:
// - Hierarchical configuration grouped by component (server, rate limit, validation, etc.)
// - Defaults that run a single instance with no external services
// - Validation at startup so misconfigurations never reach a request
// - Shared state (rate-limit counters, submissions) can move to Redis/Postgres without code changes
package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Storage type constants
const (
	StorageTypeJSON     = "json"
	StorageTypeMemory   = "memory"
	StorageTypePostgres = "postgres"
	StorageTypeSQLite   = "sqlite"
)

// Counter store type constants
const (
	CounterStoreMemory = "memory"
	CounterStoreRedis  = "redis"
)

// Rate classes used by the routes. Each class maps to a per-window budget.
const (
	RateClassRead      = "read"
	RateClassWrite     = "write"
	RateClassMessaging = "messaging"
)

// Config is the root configuration structure containing all service settings.
//
// Configuration Structure:
// - Server: HTTP server and network settings
// - RateLimit: fixed-window budgets per rate class
// - CounterStore: where rate-limit counters live (process memory or Redis)
// - Storage: persistence for accepted submissions
// - Validation: body limits and content screening
// - Logging, Metrics, Observability: operational output
type Config struct {
	Server        ServerConfig        `yaml:"server" json:"server"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit" json:"rate_limit"`
	CounterStore  CounterStoreConfig  `yaml:"counter_store" json:"counter_store"`
	Storage       StorageConfig       `yaml:"storage" json:"storage"`
	Validation    ValidationConfig    `yaml:"validation" json:"validation"`
	Logging       LoggingConfig       `yaml:"logging" json:"logging"`
	Metrics       MetricsConfig       `yaml:"metrics" json:"metrics"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

type ServerConfig struct {
	Port         int           `yaml:"port" json:"port"`
	Host         string        `yaml:"host" json:"host"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	TLSEnabled   bool          `yaml:"tls_enabled" json:"tls_enabled"`
	TLSCertFile  string        `yaml:"tls_cert_file" json:"tls_cert_file"`
	TLSKeyFile   string        `yaml:"tls_key_file" json:"tls_key_file"`
	CORS         CORSConfig    `yaml:"cors" json:"cors"`
}

type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" json:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" json:"allowed_headers"`
	MaxAge         int      `yaml:"max_age" json:"max_age"`
}

// RateLimitConfig configures the fixed-window limiter.
//
// Window semantics:
// - Every client identifier gets one counter per window
// - A window starts at the first request and lasts Window
// - Classes maps a rate class (read, write, messaging) to the request budget per window
// - Expired counters that stayed idle past IdleTimeout are swept every CleanupInterval
type RateLimitConfig struct {
	Enabled         bool           `yaml:"enabled" json:"enabled"`
	Window          time.Duration  `yaml:"window" json:"window"`
	Classes         map[string]int `yaml:"classes" json:"classes"`
	CleanupInterval time.Duration  `yaml:"cleanup_interval" json:"cleanup_interval"`
	IdleTimeout     time.Duration  `yaml:"idle_timeout" json:"idle_timeout"`
	LogSampling     time.Duration  `yaml:"log_sampling" json:"log_sampling"`
}

// Limit returns the budget for a rate class, falling back to the read class.
func (rc *RateLimitConfig) Limit(class string) int {
	if n, ok := rc.Classes[class]; ok {
		return n
	}
	return rc.Classes[RateClassRead]
}

type CounterStoreConfig struct {
	Type  string      `yaml:"type" json:"type"`
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr" json:"addr"`
	Password  string        `yaml:"password" json:"password"`
	DB        int           `yaml:"db" json:"db"`
	PoolSize  int           `yaml:"pool_size" json:"pool_size"`
	KeyPrefix string        `yaml:"key_prefix" json:"key_prefix"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

type StorageConfig struct {
	Type     string            `yaml:"type" json:"type"`
	Path     string            `yaml:"path" json:"path"`
	Database DatabaseConfig    `yaml:"database" json:"database"`
	Options  map[string]string `yaml:"options" json:"options"`
}

type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" json:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" json:"conn_max_idle_time"`
}

// ValidationConfig controls body parsing limits and the content checks.
//
// SensitiveTerms are regular expressions matched case-insensitively against
// free-text fields. Every match lowers the appropriateness score (starting at
// 100) by SensitivePenalty; a score below SensitiveThreshold rejects the request.
type ValidationConfig struct {
	MaxBodyBytes         int64    `yaml:"max_body_bytes" json:"max_body_bytes"`
	MultipartMemoryBytes int64    `yaml:"multipart_memory_bytes" json:"multipart_memory_bytes"`
	MaxUploadBytes       int64    `yaml:"max_upload_bytes" json:"max_upload_bytes"`
	SensitiveTerms       []string `yaml:"sensitive_terms" json:"sensitive_terms"`
	SensitivePenalty     int      `yaml:"sensitive_penalty" json:"sensitive_penalty"`
	SensitiveThreshold   int      `yaml:"sensitive_threshold" json:"sensitive_threshold"`
	DefaultLanguage      string   `yaml:"default_language" json:"default_language"`
}

type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
	Output   string `yaml:"output" json:"output"`
	FilePath string `yaml:"file_path" json:"file_path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	Port    int    `yaml:"port" json:"port"`
}

type ObservabilityConfig struct {
	ServiceName string        `yaml:"service_name" json:"service_name"`
	Tracing     TracingConfig `yaml:"tracing" json:"tracing"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	Exporter     string  `yaml:"exporter" json:"exporter"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" json:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate" json:"sample_rate"`
}

// DefaultSensitiveTerms is the deny-list used when none is configured.
var DefaultSensitiveTerms = []string{
	`golpe|fraude|esquema`,
	`dados\s+pessoais`,
	`transferir\s+dinheiro`,
}

// NewDefaultConfig creates a configuration that runs standalone.
//
// Default Values Rationale:
// - Port 8080: Standard non-privileged HTTP port
// - 60s window with write=10, messaging=50, read=100 requests per window
// - Counters in process memory, swept every minute once idle for 5 minutes
// - Submissions in memory; switch to sqlite/postgres for persistence
// - 1 MiB bodies, 5 MiB uploads, Portuguese deny-list with a single-hit rejection
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			CORS: CORSConfig{
				Enabled:        false,
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type", "Accept-Language"},
				MaxAge:         86400,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Window:  time.Minute,
			Classes: map[string]int{
				RateClassRead:      100,
				RateClassWrite:     10,
				RateClassMessaging: 50,
			},
			CleanupInterval: time.Minute,
			IdleTimeout:     5 * time.Minute,
			LogSampling:     time.Second,
		},
		CounterStore: CounterStoreConfig{
			Type: CounterStoreMemory,
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				PoolSize:  10,
				KeyPrefix: "lusogate:ratelimit:",
				Timeout:   2 * time.Second,
			},
		},
		Storage: StorageConfig{
			Type: StorageTypeMemory,
			Path: "./data/submissions.json",
			Database: DatabaseConfig{
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
				ConnMaxIdleTime: 5 * time.Minute,
			},
			Options: make(map[string]string),
		},
		Validation: ValidationConfig{
			MaxBodyBytes:         1 << 20,
			MultipartMemoryBytes: 1 << 20,
			MaxUploadBytes:       5 << 20,
			SensitiveTerms:       append([]string(nil), DefaultSensitiveTerms...),
			SensitivePenalty:     50,
			SensitiveThreshold:   60,
			DefaultLanguage:      "en",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
			Port:    9090,
		},
		Observability: ObservabilityConfig{
			ServiceName: "lusogate",
			Tracing: TracingConfig{
				Enabled:    false,
				Exporter:   "stdout",
				SampleRate: 1.0,
			},
		},
	}
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("invalid rate limit config: %w", err)
	}

	if err := c.CounterStore.Validate(); err != nil {
		return fmt.Errorf("invalid counter store config: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("invalid storage config: %w", err)
	}

	if err := c.Validation.Validate(); err != nil {
		return fmt.Errorf("invalid validation config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

func (sc *ServerConfig) Validate() error {
	if sc.Port <= 0 || sc.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if sc.Host == "" {
		return errors.New("host cannot be empty")
	}

	if sc.ReadTimeout < 0 || sc.WriteTimeout < 0 || sc.IdleTimeout < 0 {
		return errors.New("timeouts cannot be negative")
	}

	if sc.TLSEnabled {
		if sc.TLSCertFile == "" {
			return errors.New("TLS cert file is required when TLS is enabled")
		}
		if sc.TLSKeyFile == "" {
			return errors.New("TLS key file is required when TLS is enabled")
		}
	}

	return nil
}

func (rc *RateLimitConfig) Validate() error {
	if !rc.Enabled {
		return nil
	}

	if rc.Window <= 0 {
		return errors.New("window must be positive")
	}

	if rc.CleanupInterval <= 0 {
		return errors.New("cleanup interval must be positive")
	}

	if rc.IdleTimeout < 0 {
		return errors.New("idle timeout cannot be negative")
	}

	if _, ok := rc.Classes[RateClassRead]; !ok {
		return fmt.Errorf("rate class %q must be configured", RateClassRead)
	}

	for class, limit := range rc.Classes {
		if limit <= 0 {
			return fmt.Errorf("rate class %q must allow at least one request", class)
		}
	}

	return nil
}

func (cs *CounterStoreConfig) Validate() error {
	validTypes := []string{CounterStoreMemory, CounterStoreRedis}
	found := false
	for _, vt := range validTypes {
		if cs.Type == vt {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid counter store type: %s", cs.Type)
	}

	if cs.Type == CounterStoreRedis && cs.Redis.Addr == "" {
		return errors.New("Redis address is required when counter store type is redis")
	}

	return nil
}

func (stc *StorageConfig) Validate() error {
	validTypes := []string{StorageTypeJSON, StorageTypeMemory, StorageTypePostgres, StorageTypeSQLite}
	found := false
	for _, vt := range validTypes {
		if stc.Type == vt {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid storage type: %s", stc.Type)
	}

	if stc.Type == StorageTypeJSON && stc.Path == "" {
		return errors.New("path is required for JSON storage")
	}

	if (stc.Type == StorageTypePostgres || stc.Type == StorageTypeSQLite) && stc.Database.DSN == "" {
		return errors.New("database DSN is required for database storage")
	}

	return nil
}

func (vc *ValidationConfig) Validate() error {
	if vc.MaxBodyBytes <= 0 {
		return errors.New("max body bytes must be positive")
	}

	if vc.MultipartMemoryBytes <= 0 {
		return errors.New("multipart memory bytes must be positive")
	}

	if vc.MaxUploadBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}

	if vc.SensitivePenalty < 0 {
		return errors.New("sensitive penalty cannot be negative")
	}

	if vc.SensitiveThreshold < 0 || vc.SensitiveThreshold > 100 {
		return errors.New("sensitive threshold must be between 0 and 100")
	}

	for _, term := range vc.SensitiveTerms {
		if _, err := regexp.Compile(term); err != nil {
			return fmt.Errorf("invalid sensitive term %q: %w", term, err)
		}
	}

	if vc.DefaultLanguage != "en" && vc.DefaultLanguage != "pt" {
		return fmt.Errorf("invalid default language: %s", vc.DefaultLanguage)
	}

	return nil
}

func (lc *LoggingConfig) Validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	found := false
	for _, vl := range validLevels {
		if lc.Level == vl {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid log level: %s", lc.Level)
	}

	if lc.Format != "json" && lc.Format != "text" {
		return fmt.Errorf("invalid log format: %s", lc.Format)
	}

	validOutputs := []string{"stdout", "stderr", "file"}
	found = false
	for _, vo := range validOutputs {
		if lc.Output == vo {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid log output: %s", lc.Output)
	}

	if lc.Output == "file" && lc.FilePath == "" {
		return errors.New("file path is required when output is file")
	}

	return nil
}

func (mc *MetricsConfig) Validate() error {
	if !mc.Enabled {
		return nil
	}

	if mc.Path == "" {
		return errors.New("metrics path cannot be empty")
	}

	if mc.Port <= 0 || mc.Port > 65535 {
		return errors.New("metrics port must be between 1 and 65535")
	}

	return nil
}

func (oc *ObservabilityConfig) Validate() error {
	if !oc.Tracing.Enabled {
		return nil
	}

	switch oc.Tracing.Exporter {
	case "stdout":
	case "otlp":
		if oc.Tracing.OTLPEndpoint == "" {
			return errors.New("OTLP endpoint is required when exporter is otlp")
		}
	default:
		return fmt.Errorf("invalid tracing exporter: %s", oc.Tracing.Exporter)
	}

	if oc.Tracing.SampleRate < 0 || oc.Tracing.SampleRate > 1 {
		return errors.New("sample rate must be between 0 and 1")
	}

	return nil
}
