// Package article serves the public, read-only article API:
// the paginated list, single articles and keyword search.
package article

import (
	"blog-admin/internal/repository"
)

// DateLayout is the wire format of created_at and updated_at.
const DateLayout = "2006-01-02"

// DTO represents the JSON structure for article data transfer.
type DTO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	AuthorID  int64  `json:"author_id"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toDTO(item repository.ArticleWithAuthor) DTO {
	a := item.Article
	return DTO{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		AuthorID:  a.AuthorID,
		Author:    item.AuthorName,
		CreatedAt: a.CreatedAt.Format(DateLayout),
		UpdatedAt: a.UpdatedAt.Format(DateLayout),
	}
}

func toDTOs(items []repository.ArticleWithAuthor) []DTO {
	out := make([]DTO, 0, len(items))
	for _, item := range items {
		out = append(out, toDTO(item))
	}
	return out
}
