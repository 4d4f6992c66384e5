package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectTables(mock sqlmock.Sqlmock) {
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS articles .*author_id\s+INTEGER NOT NULL REFERENCES users\(id\) ON DELETE CASCADE`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_articles_author_id").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_articles_created_at").
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestMigrateUp_Success(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	expectTables(mock)
	mock.ExpectExec("CREATE EXTENSION IF NOT EXISTS pg_trgm").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("idx_articles_title_gin").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("idx_articles_body_gin").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("idx_users_username_gin").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, MigrateUp(context.Background(), sqlDB))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_WithoutTrigramExtension(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	expectTables(mock)
	mock.ExpectExec("CREATE EXTENSION IF NOT EXISTS pg_trgm").
		WillReturnError(errors.New("permission denied to create extension"))

	require.NoError(t, MigrateUp(context.Background(), sqlDB))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_ArticlesTableError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS articles").
		WillReturnError(errors.New("relation users does not exist"))

	err = MigrateUp(context.Background(), sqlDB)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create articles")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_IndexError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS articles").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("idx_articles_author_id").WillReturnError(errors.New("disk full"))

	err = MigrateUp(context.Background(), sqlDB)
	assert.ErrorContains(t, err, "create index")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateDown(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectExec("DROP TABLE IF EXISTS articles").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP TABLE IF EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, MigrateDown(context.Background(), sqlDB))
	assert.NoError(t, mock.ExpectationsWereMet())
}
