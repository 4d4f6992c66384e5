package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// MigrateUp creates the users and articles tables and their indexes.
// It is idempotent.
func MigrateUp(ctx context.Context, db Execer) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS users (
    id          SERIAL PRIMARY KEY,
    username    VARCHAR(150) NOT NULL UNIQUE,
    email       TEXT NOT NULL DEFAULT '',
    date_joined TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("create users: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS articles (
    id         SERIAL PRIMARY KEY,
    title      VARCHAR(255) NOT NULL,
    body       TEXT NOT NULL,
    created_at DATE NOT NULL DEFAULT CURRENT_DATE,
    updated_at DATE NOT NULL DEFAULT CURRENT_DATE,
    author_id  INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
)`); err != nil {
		return fmt.Errorf("create articles: %w", err)
	}

	indexes := []string{
		// author filter and author,title ordering
		`CREATE INDEX IF NOT EXISTS idx_articles_author_id ON articles(author_id)`,
		// created_at date filter and newest-first listing
		`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	// pg_trgm needs superuser on some installations; search still works without it.
	if _, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS pg_trgm`); err != nil {
		slog.Warn("pg_trgm extension unavailable, skipping search indexes", slog.Any("error", err))
		return nil
	}
	searchIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_articles_title_gin ON articles USING gin(title gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_body_gin ON articles USING gin(body gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_users_username_gin ON users USING gin(username gin_trgm_ops)`,
	}
	for _, idx := range searchIndexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			slog.Warn("failed to create search index", slog.String("statement", idx), slog.Any("error", err))
		}
	}
	return nil
}

// MigrateDown drops the articles and users tables.
func MigrateDown(ctx context.Context, db Execer) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS articles`,
		`DROP TABLE IF EXISTS users`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}
	return nil
}
