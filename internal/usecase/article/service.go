package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog-admin/internal/common/pagination"
	"blog-admin/internal/domain/entity"
	"blog-admin/internal/observability/metrics"
	"blog-admin/internal/observability/tracing"
	"blog-admin/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// CreateInput represents the input parameters for creating a new article.
type CreateInput struct {
	AuthorID int64
	Title    string
	Body     string
}

// UpdateInput represents the input parameters for updating an existing article.
// Fields with nil values will not be updated. The creation date cannot be changed.
type UpdateInput struct {
	ID       int64
	AuthorID *int64
	Title    *string
	Body     *string
}

// ListInput selects one page of articles.
type ListInput struct {
	Keywords []string
	Filters  repository.ArticleFilters
	Ordering []repository.OrderBy
	Params   pagination.Params
}

// PaginatedResult represents the result of a paginated query.
type PaginatedResult struct {
	Data       []repository.ArticleWithAuthor
	Pagination pagination.Metadata
}

// Service provides article management use cases.
// Users may be nil, in which case author existence is left to the storage foreign key.
type Service struct {
	Repo  repository.ArticleRepository
	Users repository.UserRepository
	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

func (s *Service) today() time.Time {
	if s.Now != nil {
		return entity.DateOf(s.Now())
	}
	return entity.DateOf(time.Now())
}

func observe(op string, start time.Time) {
	metrics.RecordDBQuery(op, time.Since(start))
}

// List retrieves a page of articles matching the input together with the total count.
// The count and the page are fetched concurrently.
func (s *Service) List(ctx context.Context, in ListInput) (*PaginatedResult, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "article.List")
	defer span.End()
	defer observe("article.list", time.Now())

	params := in.Params
	offset := pagination.CalculateOffset(params.Page, params.Limit)

	var (
		total    int64
		articles []repository.ArticleWithAuthor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Repo.Count(gctx, in.Keywords, in.Filters)
		if err != nil {
			return fmt.Errorf("count articles: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		items, err := s.Repo.List(gctx, repository.ArticleQuery{
			Keywords: in.Keywords,
			Filters:  in.Filters,
			Ordering: in.Ordering,
			Offset:   offset,
			Limit:    params.Limit,
		})
		if err != nil {
			return fmt.Errorf("list articles: %w", err)
		}
		articles = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(in.Keywords) == 0 && in.Filters == (repository.ArticleFilters{}) {
		metrics.UpdateArticlesTotal(total)
	}
	span.SetAttributes(attribute.Int64("articles.total", total))

	return &PaginatedResult{
		Data:       articles,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// Get retrieves a single article by its ID.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}
	defer observe("article.get", time.Now())

	article, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// GetWithAuthor retrieves a single article by its ID along with the author's username.
func (s *Service) GetWithAuthor(ctx context.Context, id int64) (*repository.ArticleWithAuthor, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}
	defer observe("article.get_with_author", time.Now())

	item, err := s.Repo.GetWithAuthor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article with author: %w", err)
	}
	if item == nil {
		return nil, ErrArticleNotFound
	}
	return item, nil
}

// Search finds articles whose title or body contains kw, ignoring case.
func (s *Service) Search(ctx context.Context, kw string) ([]*entity.Article, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "article.Search")
	defer span.End()
	defer observe("article.search", time.Now())

	articles, err := s.Repo.Search(ctx, kw)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return articles, nil
}

// ensureAuthor checks that the author exists when a user repository is configured.
func (s *Service) ensureAuthor(ctx context.Context, authorID int64) error {
	if s.Users == nil {
		return nil
	}
	u, err := s.Users.Get(ctx, authorID)
	if err != nil {
		return fmt.Errorf("get author: %w", err)
	}
	if u == nil {
		return ErrAuthorNotFound
	}
	return nil
}

// Create creates a new article. Both dates are set to today and surrounding
// whitespace is stripped from the title and body.
// Returns a ValidationError if a field is missing or too long, and
// ErrAuthorNotFound if the author does not exist. Nothing is persisted on error.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Article, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "article.Create")
	defer span.End()

	today := s.today()
	art := &entity.Article{
		AuthorID:  in.AuthorID,
		Title:     strings.TrimSpace(in.Title),
		Body:      strings.TrimSpace(in.Body),
		CreatedAt: today,
		UpdatedAt: today,
	}
	if err := art.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureAuthor(ctx, art.AuthorID); err != nil {
		return nil, err
	}

	start := time.Now()
	if err := s.Repo.Create(ctx, art); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	observe("article.create", start)
	metrics.RecordArticleCreated()
	span.SetAttributes(attribute.Int64("article.id", art.ID))
	return art, nil
}

// Update modifies an existing article with the provided input.
// Only non-nil fields are applied; CreatedAt is kept and UpdatedAt is refreshed.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Article, error) {
	if in.ID <= 0 {
		return nil, ErrInvalidArticleID
	}
	ctx, span := tracing.GetTracer().Start(ctx, "article.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("article.id", in.ID))

	art, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return nil, ErrArticleNotFound
	}

	authorChanged := false
	if in.AuthorID != nil && *in.AuthorID != art.AuthorID {
		art.AuthorID = *in.AuthorID
		authorChanged = true
	}
	if in.Title != nil {
		art.Title = strings.TrimSpace(*in.Title)
	}
	if in.Body != nil {
		art.Body = strings.TrimSpace(*in.Body)
	}
	if err := art.Validate(); err != nil {
		return nil, err
	}
	if authorChanged {
		if err := s.ensureAuthor(ctx, art.AuthorID); err != nil {
			return nil, err
		}
	}

	art.Touch(s.today())

	start := time.Now()
	if err := s.Repo.Update(ctx, art); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("update article: %w", err)
	}
	observe("article.update", start)
	metrics.RecordArticleUpdated()
	return art, nil
}

// Delete removes an article by its ID.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidArticleID
	}
	ctx, span := tracing.GetTracer().Start(ctx, "article.Delete")
	defer span.End()
	defer observe("article.delete", time.Now())

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}
	metrics.RecordArticlesDeleted("direct", 1)
	return nil
}

// CountByAuthor returns the number of articles written by authorID.
func (s *Service) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	n, err := s.Repo.CountByAuthor(ctx, authorID)
	if err != nil {
		return 0, fmt.Errorf("count articles by author: %w", err)
	}
	return n, nil
}
