// Package article provides use cases for managing article entities.
// It implements business logic for creating, updating, deleting, and querying articles,
// including validation and interaction with the article and user repositories.
package article

import (
	"errors"

	"blog-admin/internal/domain/entity"
)

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that the requested article was not found.
	ErrArticleNotFound = errors.New("article not found")

	// ErrInvalidArticleID indicates that the provided article ID is invalid.
	// Article IDs must be positive integers.
	ErrInvalidArticleID = errors.New("invalid article ID")

	// ErrAuthorNotFound indicates that the referenced author does not exist.
	// It is a validation error on the author field.
	ErrAuthorNotFound error = &entity.ValidationError{Field: "author", Message: "does not exist"}
)
