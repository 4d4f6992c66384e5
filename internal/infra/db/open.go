// Package db opens the PostgreSQL connection pool and manages the schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"blog-admin/internal/resilience/retry"
	envconfig "blog-admin/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// MemoryDSN selects the in-memory store instead of PostgreSQL.
const MemoryDSN = "memory://"

// ErrMissingDSN is returned when no DATABASE_URL is configured.
var ErrMissingDSN = errors.New("DATABASE_URL not set")

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	// ConnectAttempts is how many times the initial ping is tried.
	ConnectAttempts int `yaml:"connect_attempts"`
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		ConnectAttempts: retry.ConnectConfig().MaxAttempts,
	}
}

// ConnectionConfigFromEnv overlays DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS,
// DB_CONN_MAX_LIFETIME, DB_CONN_MAX_IDLE_TIME and DB_CONNECT_ATTEMPTS on base. Non-positive values are ignored.
func ConnectionConfigFromEnv(base ConnectionConfig) ConnectionConfig {
	cfg := base
	if v := envconfig.GetEnvInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns); v > 0 {
		cfg.MaxOpenConns = v
	}
	if v := envconfig.GetEnvInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns); v > 0 {
		cfg.MaxIdleConns = v
	}
	if v := envconfig.GetEnvDuration("DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime); v > 0 {
		cfg.ConnMaxLifetime = v
	}
	if v := envconfig.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.ConnMaxIdleTime); v > 0 {
		cfg.ConnMaxIdleTime = v
	}
	if v := envconfig.GetEnvInt("DB_CONNECT_ATTEMPTS", cfg.ConnectAttempts); v > 0 {
		cfg.ConnectAttempts = v
	}
	return cfg
}

// IsMemoryDSN reports whether dsn selects the in-memory store.
func IsMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, MemoryDSN)
}

// Open creates and configures a new PostgreSQL connection pool and verifies it
// with a ping. Connection failures are retried with backoff up to cfg.ConnectAttempts times.
func Open(ctx context.Context, dsn string, cfg ConnectionConfig) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("dsn", RedactDSN(dsn)),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	rc := retry.ConnectConfig()
	rc.MaxAttempts = cfg.ConnectAttempts
	err = retry.WithBackoff(ctx, rc, "ping database", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connection established successfully")
	return db, nil
}

// RedactDSN masks the password of a URL-style DSN.
func RedactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
