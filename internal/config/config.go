// Package config loads the service configuration from an optional YAML file
// overlaid with environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"blog-admin/internal/common/pagination"
	"blog-admin/internal/infra/db"
	envconfig "blog-admin/pkg/config"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Version    string            `yaml:"version"`
	HTTP       HTTPConfig        `yaml:"http"`
	Database   DatabaseConfig    `yaml:"database"`
	Auth       AuthConfig        `yaml:"auth"`
	Log        LogConfig         `yaml:"log"`
	RateLimit  RateLimitConfig   `yaml:"rate_limit"`
	Tracing    TracingConfig     `yaml:"tracing"`
	Pagination pagination.Config `yaml:"pagination"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// DatabaseConfig selects the store. A URL of "memory://" uses the in-memory store.
type DatabaseConfig struct {
	URL         string              `yaml:"url"`
	Pool        db.ConnectionConfig `yaml:"pool"`
	AutoMigrate bool                `yaml:"auto_migrate"`
}

type AuthConfig struct {
	// JWTSecret signs and verifies HS256 tokens. It is normally set through JWT_SECRET.
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled"`
	RPS               float64       `yaml:"rps"`
	Burst             int           `yaml:"burst"`
	IdleTTL           time.Duration `yaml:"idle_ttl"`
	TrustProxyHeaders bool          `yaml:"trust_proxy_headers"`
}

type TracingConfig struct {
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default returns the configuration used when neither file nor environment set a value.
func Default() Config {
	return Config{
		Version: "dev",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Database: DatabaseConfig{
			Pool:        db.DefaultConnectionConfig(),
			AutoMigrate: true,
		},
		Auth: AuthConfig{TokenTTL: time.Hour},
		Log:  LogConfig{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     10,
			Burst:   20,
			IdleTTL: 10 * time.Minute,
		},
		Tracing:    TracingConfig{ServiceName: "blog-admin", SampleRatio: 1.0},
		Pagination: pagination.DefaultConfig(),
	}
}

// Load reads path (skipped when empty), applies the environment and validates the result.
// Out-of-range optional values are replaced by their defaults and reported in the log.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			loadMetrics.RecordValidationError("file")
			return nil, err
		}
	}
	applyEnv(&cfg)

	fallbacks := cfg.applyFallbacks(Default())
	loadMetrics.SetFallbackActive(len(fallbacks) > 0)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loadMetrics.RecordLoadTimestamp()
	return &cfg, nil
}

func readFile(path string, cfg *Config) error {
	// #nosec G304 -- path comes from a command-line flag
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Version = envconfig.GetEnvString("VERSION", cfg.Version)

	cfg.HTTP.Addr = envconfig.GetEnvString("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.ReadTimeout = envconfig.GetEnvDuration("HTTP_READ_TIMEOUT", cfg.HTTP.ReadTimeout)
	cfg.HTTP.WriteTimeout = envconfig.GetEnvDuration("HTTP_WRITE_TIMEOUT", cfg.HTTP.WriteTimeout)
	cfg.HTTP.IdleTimeout = envconfig.GetEnvDuration("HTTP_IDLE_TIMEOUT", cfg.HTTP.IdleTimeout)
	cfg.HTTP.ShutdownTimeout = envconfig.GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout)
	cfg.HTTP.MaxBodyBytes = int64(envconfig.GetEnvInt("HTTP_MAX_BODY_BYTES", int(cfg.HTTP.MaxBodyBytes)))

	cfg.Database.URL = envconfig.GetEnvString("DATABASE_URL", cfg.Database.URL)
	cfg.Database.Pool = db.ConnectionConfigFromEnv(cfg.Database.Pool)
	cfg.Database.AutoMigrate = envconfig.GetEnvBool("DB_AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.Auth.JWTSecret = envconfig.GetEnvString("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.TokenTTL = envconfig.GetEnvDuration("JWT_TOKEN_TTL", cfg.Auth.TokenTTL)

	cfg.Log.Level = envconfig.GetEnvString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envconfig.GetEnvString("LOG_FORMAT", cfg.Log.Format)

	cfg.RateLimit.Enabled = envconfig.GetEnvBool("RATELIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.RPS = envconfig.GetEnvFloat("RATELIMIT_RPS", cfg.RateLimit.RPS)
	cfg.RateLimit.Burst = envconfig.GetEnvInt("RATELIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.IdleTTL = envconfig.GetEnvDuration("RATELIMIT_IDLE_TTL", cfg.RateLimit.IdleTTL)
	cfg.RateLimit.TrustProxyHeaders = envconfig.GetEnvBool("RATELIMIT_TRUST_PROXY", cfg.RateLimit.TrustProxyHeaders)

	cfg.Tracing.ServiceName = envconfig.GetEnvString("OTEL_SERVICE_NAME", cfg.Tracing.ServiceName)
	cfg.Tracing.SampleRatio = envconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", cfg.Tracing.SampleRatio)

	cfg.Pagination = pagination.LoadFromEnv(cfg.Pagination)
}

// applyFallbacks resets optional values that are out of range and returns the affected fields.
func (c *Config) applyFallbacks(def Config) []string {
	var fields []string
	fallback := func(field string, value any) {
		fields = append(fields, field)
		loadMetrics.RecordFallback(field)
		slog.Warn("configuration value out of range, using default",
			slog.String("field", field),
			slog.Any("default", value))
	}

	if r := c.Tracing.SampleRatio; r < 0 || r > 1 {
		c.Tracing.SampleRatio = def.Tracing.SampleRatio
		fallback("tracing.sample_ratio", def.Tracing.SampleRatio)
	}
	if c.RateLimit.IdleTTL <= 0 {
		c.RateLimit.IdleTTL = def.RateLimit.IdleTTL
		fallback("rate_limit.idle_ttl", def.RateLimit.IdleTTL)
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = def.Auth.TokenTTL
		fallback("auth.token_ttl", def.Auth.TokenTTL)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = def.HTTP.MaxBodyBytes
		fallback("http.max_body_bytes", def.HTTP.MaxBodyBytes)
	}
	return fields
}

// Validate reports every invalid required setting.
func (c *Config) Validate() error {
	var errs []error
	check := func(field string, err error) {
		if err != nil {
			loadMetrics.RecordValidationError(field)
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}

	if c.HTTP.Addr == "" {
		check("http.addr", errors.New("must not be empty"))
	}
	check("http.read_timeout", envconfig.ValidatePositiveDuration(c.HTTP.ReadTimeout))
	check("http.write_timeout", envconfig.ValidatePositiveDuration(c.HTTP.WriteTimeout))
	check("http.shutdown_timeout", envconfig.ValidateDurationRange(c.HTTP.ShutdownTimeout, time.Second, 5*time.Minute))
	if c.Database.URL == "" {
		check("database.url", db.ErrMissingDSN)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			check("rate_limit.rps", errors.New("must be positive"))
		}
		if c.RateLimit.Burst < 1 {
			check("rate_limit.burst", errors.New("must be at least 1"))
		}
	}
	check("pagination", c.Pagination.Validate())
	return errors.Join(errs...)
}
