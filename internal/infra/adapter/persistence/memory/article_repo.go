package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"blog-admin/internal/domain/entity"
	"blog-admin/internal/pkg/search"
	"blog-admin/internal/repository"
)

// ArticleRepo implements repository.ArticleRepository over a Store.
type ArticleRepo struct {
	s *Store
}

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

// matches applies the keyword and filter semantics of the SQL WHERE clause.
func matches(a *entity.Article, keywords []string, f repository.ArticleFilters) bool {
	for _, kw := range keywords {
		if !search.Contains(a.Title, kw) && !search.Contains(a.Body, kw) {
			return false
		}
	}
	if f.AuthorID != nil && a.AuthorID != *f.AuthorID {
		return false
	}
	if f.CreatedFrom != nil && a.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && a.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

// compareBy compares two articles on one ordering key. The caller must hold s.mu.
func (r *ArticleRepo) compareBy(field string, a, b *entity.Article) int {
	switch field {
	case repository.OrderByAuthor:
		return cmp.Compare(r.s.users[a.AuthorID].Username, r.s.users[b.AuthorID].Username)
	case repository.OrderByTitle:
		return cmp.Compare(a.Title, b.Title)
	case repository.OrderByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case repository.OrderByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case repository.OrderByID:
		return cmp.Compare(a.ID, b.ID)
	}
	return 0
}

func (r *ArticleRepo) List(_ context.Context, q repository.ArticleQuery) ([]repository.ArticleWithAuthor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ordering := q.Ordering
	if len(ordering) == 0 {
		ordering = []repository.OrderBy{{Field: repository.OrderByCreatedAt, Desc: true}}
	}

	selected := make([]*entity.Article, 0, len(r.s.articles))
	for _, a := range r.s.articles {
		if matches(&a, q.Keywords, q.Filters) {
			selected = append(selected, &a)
		}
	}
	slices.SortFunc(selected, func(a, b *entity.Article) int {
		for _, o := range ordering {
			c := r.compareBy(o.Field, a, b)
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if q.Offset > 0 {
		if q.Offset >= len(selected) {
			selected = nil
		} else {
			selected = selected[q.Offset:]
		}
	}
	if q.Limit > 0 && len(selected) > q.Limit {
		selected = selected[:q.Limit]
	}

	result := make([]repository.ArticleWithAuthor, 0, len(selected))
	for _, a := range selected {
		result = append(result, repository.ArticleWithAuthor{
			Article:    a,
			AuthorName: r.s.users[a.AuthorID].Username,
		})
	}
	return result, nil
}

func (r *ArticleRepo) Count(_ context.Context, keywords []string, filters repository.ArticleFilters) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, a := range r.s.articles {
		if matches(&a, keywords, filters) {
			n++
		}
	}
	return n, nil
}

func (r *ArticleRepo) Get(_ context.Context, id int64) (*entity.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.articles[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *ArticleRepo) GetWithAuthor(_ context.Context, id int64) (*repository.ArticleWithAuthor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.articles[id]
	if !ok {
		return nil, nil
	}
	return &repository.ArticleWithAuthor{Article: &a, AuthorName: r.s.users[a.AuthorID].Username}, nil
}

func (r *ArticleRepo) Search(ctx context.Context, keyword string) ([]*entity.Article, error) {
	items, err := r.List(ctx, repository.ArticleQuery{Keywords: []string{keyword}})
	if err != nil {
		return nil, err
	}
	articles := make([]*entity.Article, 0, len(items))
	for _, it := range items {
		articles = append(articles, it.Article)
	}
	return articles, nil
}

func (r *ArticleRepo) Create(_ context.Context, article *entity.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkArticle("Create", article); err != nil {
		return err
	}
	r.s.nextArt++
	article.ID = r.s.nextArt
	r.s.articles[article.ID] = *article
	return nil
}

// Update replaces the mutable columns. The stored created_at is kept.
func (r *ArticleRepo) Update(_ context.Context, article *entity.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.articles[article.ID]
	if !ok {
		return fmt.Errorf("Update: no rows affected: %w", entity.ErrNotFound)
	}
	if err := r.s.checkArticle("Update", article); err != nil {
		return err
	}
	existing.Title = article.Title
	existing.Body = article.Body
	existing.AuthorID = article.AuthorID
	existing.UpdatedAt = article.UpdatedAt
	r.s.articles[article.ID] = existing
	return nil
}

func (r *ArticleRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.articles[id]; !ok {
		return fmt.Errorf("Delete: no rows affected: %w", entity.ErrNotFound)
	}
	delete(r.s.articles, id)
	return nil
}

func (r *ArticleRepo) CountByAuthor(_ context.Context, authorID int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, a := range r.s.articles {
		if a.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}
