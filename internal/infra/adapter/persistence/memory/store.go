// Package memory provides in-memory implementations of the repository interfaces.
// It enforces the same integrity rules as the PostgreSQL schema: NOT NULL
// columns, the articles.author_id foreign key and its cascade on user delete.
package memory

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"blog-admin/internal/domain/entity"
)

// Store holds users and articles behind a single RWMutex.
// Create one Store and derive both repositories from it so the foreign key
// and the cascade can be enforced.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]entity.User
	articles map[int64]entity.Article
	nextUser int64
	nextArt  int64
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]entity.User),
		articles: make(map[int64]entity.Article),
		now:      time.Now,
	}
}

// Articles returns an ArticleRepository backed by s.
func (s *Store) Articles() *ArticleRepo { return &ArticleRepo{s: s} }

// Users returns a UserRepository backed by s.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

func constraintError(op, detail string) error {
	return fmt.Errorf("%s: %w: %s", op, entity.ErrConstraintViolation, detail)
}

// checkArticle mirrors the NOT NULL and foreign key constraints of the articles table.
// The caller must hold s.mu.
func (s *Store) checkArticle(op string, a *entity.Article) error {
	if a.Title == "" {
		return constraintError(op, `null value in column "title"`)
	}
	if utf8.RuneCountInString(a.Title) > entity.MaxTitleLength {
		return constraintError(op, "value too long for column \"title\"")
	}
	if a.Body == "" {
		return constraintError(op, `null value in column "body"`)
	}
	if a.AuthorID == 0 {
		return constraintError(op, `null value in column "author_id"`)
	}
	if _, ok := s.users[a.AuthorID]; !ok {
		return constraintError(op, fmt.Sprintf("author %d does not exist", a.AuthorID))
	}
	return nil
}
