// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article and User, along with
// their validation rules and domain-specific errors.
package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the maximum number of characters allowed in an article title.
const MaxTitleLength = 255

// Article represents a blog article written by a user.
// CreatedAt and UpdatedAt hold calendar dates (UTC midnight), not instants.
type Article struct {
	ID        int64
	AuthorID  int64
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the presence and length constraints of the article fields.
// It returns a *ValidationError describing the first offending field.
func (a *Article) Validate() error {
	if a.AuthorID <= 0 {
		return &ValidationError{Field: "author", Message: "is required"}
	}
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if utf8.RuneCountInString(a.Title) > MaxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must be at most %d characters (too long)", MaxTitleLength),
		}
	}
	if strings.TrimSpace(a.Body) == "" {
		return &ValidationError{Field: "body", Message: "is required"}
	}
	return nil
}

// Touch refreshes UpdatedAt to the date of now. UpdatedAt never moves before CreatedAt.
func (a *Article) Touch(now time.Time) {
	d := DateOf(now)
	if d.Before(a.CreatedAt) {
		d = a.CreatedAt
	}
	a.UpdatedAt = d
}

// DateOf truncates an instant to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
