package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blog-admin/internal/domain/entity"
	"blog-admin/internal/pkg/search"
	"blog-admin/internal/repository"
)

type ArticleRepo struct {
	db           DBTX
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db DBTX) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

const articleWithAuthorColumns = `a.id, a.author_id, a.title, a.body, a.created_at, a.updated_at, u.username`

func scanArticleWithAuthor(scan func(dest ...interface{}) error) (repository.ArticleWithAuthor, error) {
	var article entity.Article
	var authorName string
	err := scan(&article.ID, &article.AuthorID, &article.Title, &article.Body,
		&article.CreatedAt, &article.UpdatedAt, &authorName)
	return repository.ArticleWithAuthor{Article: &article, AuthorName: authorName}, err
}

func (repo *ArticleRepo) List(ctx context.Context, q repository.ArticleQuery) ([]repository.ArticleWithAuthor, error) {
	if len(q.Keywords) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, search.DefaultSearchTimeout)
		defer cancel()
	}

	whereClause, args := repo.queryBuilder.BuildWhereClause(q.Keywords, q.Filters, "a")
	query := fmt.Sprintf(`
SELECT %s
FROM articles a
INNER JOIN users u ON a.author_id = u.id
%s
%s`, articleWithAuthorColumns, whereClause, repo.queryBuilder.BuildOrderClause(q.Ordering))

	paramIndex := len(args) + 1
	if q.Limit > 0 {
		query += fmt.Sprintf("\nLIMIT $%d", paramIndex)
		args = append(args, q.Limit)
		paramIndex++
	}
	if q.Offset > 0 {
		query += fmt.Sprintf("\nOFFSET $%d", paramIndex)
		args = append(args, q.Offset)
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]repository.ArticleWithAuthor, 0, q.Limit)
	for rows.Next() {
		item, err := scanArticleWithAuthor(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// Count returns the number of articles matching keywords and filters.
// It uses the same WHERE clause as List.
func (repo *ArticleRepo) Count(ctx context.Context, keywords []string, filters repository.ArticleFilters) (int64, error) {
	if len(keywords) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, search.DefaultSearchTimeout)
		defer cancel()
	}

	whereClause, args := repo.queryBuilder.BuildWhereClause(keywords, filters, "")
	query := "SELECT COUNT(*) FROM articles " + whereClause

	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	const query = `
SELECT id, author_id, title, body, created_at, updated_at
FROM articles
WHERE id = $1
LIMIT 1`
	var article entity.Article
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&article.ID, &article.AuthorID, &article.Title, &article.Body,
			&article.CreatedAt, &article.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &article, nil
}

func (repo *ArticleRepo) GetWithAuthor(ctx context.Context, id int64) (*repository.ArticleWithAuthor, error) {
	query := `
SELECT ` + articleWithAuthorColumns + `
FROM articles a
INNER JOIN users u ON a.author_id = u.id
WHERE a.id = $1
LIMIT 1`
	item, err := scanArticleWithAuthor(repo.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetWithAuthor: %w", err)
	}
	return &item, nil
}

func (repo *ArticleRepo) Search(ctx context.Context, keyword string) ([]*entity.Article, error) {
	const query = `
SELECT id, author_id, title, body, created_at, updated_at
FROM articles
WHERE title ILIKE $1
   OR body  ILIKE $1
ORDER BY created_at DESC, id ASC`

	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	rows, err := repo.db.QueryContext(ctx, query, search.EscapeILIKE(keyword))
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 16)
	for rows.Next() {
		var article entity.Article
		if err := rows.Scan(&article.ID, &article.AuthorID, &article.Title, &article.Body,
			&article.CreatedAt, &article.UpdatedAt); err != nil {
			return nil, fmt.Errorf("Search: Scan: %w", err)
		}
		articles = append(articles, &article)
	}
	return articles, rows.Err()
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles
       (title, body, author_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		article.Title, article.Body, article.AuthorID,
		article.CreatedAt, article.UpdatedAt,
	).Scan(&article.ID)
	if err != nil {
		return wrapError("Create", err)
	}
	return nil
}

// Update writes every mutable column. created_at is not part of the statement.
func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	const query = `
UPDATE articles SET
       title      = $1,
       body       = $2,
       author_id  = $3,
       updated_at = $4
WHERE id = $5`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Body, article.AuthorID,
		article.UpdatedAt, article.ID,
	)
	if err != nil {
		return wrapError("Update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM articles WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles WHERE author_id = $1`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, authorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByAuthor: %w", err)
	}
	return count, nil
}
