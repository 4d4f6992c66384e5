package postgres

import (
	"fmt"
	"strings"

	"blog-admin/internal/pkg/search"
	"blog-admin/internal/repository"
)

// orderColumns maps sortable fields to SQL expressions over "articles a JOIN users u".
var orderColumns = map[string]string{
	repository.OrderByAuthor:    "u.username",
	repository.OrderByTitle:     "a.title",
	repository.OrderByCreatedAt: "a.created_at",
	repository.OrderByUpdatedAt: "a.updated_at",
	repository.OrderByID:        "a.id",
}

// ArticleQueryBuilder builds WHERE and ORDER BY clauses for article queries.
// The WHERE builder is shared between COUNT and SELECT queries.
// It uses PostgreSQL-specific features like ILIKE and numbered placeholders ($1, $2, etc.).
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause builds the WHERE clause and arguments for keyword search and filters.
// Each keyword must match title or body; keywords are ANDed together.
// Returns an empty clause if no conditions are provided.
func (qb *ArticleQueryBuilder) BuildWhereClause(keywords []string, filters repository.ArticleFilters, tableAlias string) (clause string, args []interface{}) {
	col := func(name string) string {
		if tableAlias != "" {
			return tableAlias + "." + name
		}
		return name
	}

	var conditions []string
	paramIndex := 1

	for _, keyword := range keywords {
		conditions = append(conditions, fmt.Sprintf("(%s ILIKE $%d OR %s ILIKE $%d)",
			col("title"), paramIndex, col("body"), paramIndex))
		args = append(args, search.EscapeILIKE(keyword))
		paramIndex++
	}

	if filters.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", col("author_id"), paramIndex))
		args = append(args, *filters.AuthorID)
		paramIndex++
	}
	if filters.CreatedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("%s >= $%d", col("created_at"), paramIndex))
		args = append(args, *filters.CreatedFrom)
		paramIndex++
	}
	if filters.CreatedTo != nil {
		conditions = append(conditions, fmt.Sprintf("%s <= $%d", col("created_at"), paramIndex))
		args = append(args, *filters.CreatedTo)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// BuildOrderClause builds the ORDER BY clause for ordering. Unknown fields are
// skipped and a.id is appended as the final tiebreaker unless already present.
// An empty ordering falls back to newest first.
func (qb *ArticleQueryBuilder) BuildOrderClause(ordering []repository.OrderBy) string {
	if len(ordering) == 0 {
		ordering = []repository.OrderBy{{Field: repository.OrderByCreatedAt, Desc: true}}
	}

	parts := make([]string, 0, len(ordering)+1)
	hasID := false
	for _, o := range ordering {
		expr, ok := orderColumns[o.Field]
		if !ok {
			continue
		}
		if o.Field == repository.OrderByID {
			hasID = true
		}
		if o.Desc {
			expr += " DESC"
		} else {
			expr += " ASC"
		}
		parts = append(parts, expr)
	}
	if !hasID {
		parts = append(parts, "a.id ASC")
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}
