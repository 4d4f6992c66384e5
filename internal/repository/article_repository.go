package repository

import (
	"context"
	"time"

	"blog-admin/internal/domain/entity"
)

// Sortable article fields accepted in OrderBy.Field.
const (
	OrderByAuthor    = "author"
	OrderByTitle     = "title"
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"
	OrderByID        = "id"
)

// ArticleWithAuthor represents an article along with its author's username.
type ArticleWithAuthor struct {
	Article    *entity.Article
	AuthorName string
}

// ArticleFilters contains optional filters for article listing and search.
type ArticleFilters struct {
	AuthorID    *int64     // Optional: Filter by author ID
	CreatedFrom *time.Time // Optional: Filter articles created on or after this date
	CreatedTo   *time.Time // Optional: Filter articles created on or before this date
}

// OrderBy is one ordering key. Author ordering sorts by the author's username.
type OrderBy struct {
	Field string
	Desc  bool
}

// ArticleQuery describes a filtered, searched, ordered page of articles.
// Every keyword must match title or body (AND across keywords, OR across fields).
// A Limit of 0 means no limit. The id is always appended as the final tiebreaker.
type ArticleQuery struct {
	Keywords []string
	Filters  ArticleFilters
	Ordering []OrderBy
	Offset   int
	Limit    int
}

type ArticleRepository interface {
	// List returns the articles matching q together with their author names.
	List(ctx context.Context, q ArticleQuery) ([]ArticleWithAuthor, error)
	// Count returns the number of articles matching keywords and filters.
	// It is used for calculating pagination metadata.
	Count(ctx context.Context, keywords []string, filters ArticleFilters) (int64, error)
	// Get returns (nil, nil) if the article is not found.
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// GetWithAuthor returns (nil, nil) if the article is not found.
	GetWithAuthor(ctx context.Context, id int64) (*ArticleWithAuthor, error)
	// Search performs a case-insensitive substring match over title and body.
	Search(ctx context.Context, keyword string) ([]*entity.Article, error)
	// Create inserts the article and assigns its ID.
	Create(ctx context.Context, article *entity.Article) error
	// Update writes title, body, author and updated_at. created_at is never written.
	Update(ctx context.Context, article *entity.Article) error
	Delete(ctx context.Context, id int64) error
	CountByAuthor(ctx context.Context, authorID int64) (int64, error)
}
