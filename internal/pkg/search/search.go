// Package search provides keyword parsing and LIKE-pattern escaping shared by
// the storage adapters and HTTP handlers.
package search

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultMaxKeywordCount is the maximum number of keywords accepted in one query.
	DefaultMaxKeywordCount = 10
	// DefaultMaxKeywordLength is the maximum length of a single keyword in characters.
	DefaultMaxKeywordLength = 100
	// DefaultSearchTimeout bounds the duration of a search query.
	DefaultSearchTimeout = 5 * time.Second
)

var (
	// ErrTooManyKeywords is returned when the query contains more keywords than allowed.
	ErrTooManyKeywords = errors.New("too many keywords")
	// ErrKeywordTooLong is returned when a keyword exceeds the allowed length.
	ErrKeywordTooLong = errors.New("keyword too long")
)

// ParseKeywords splits raw on whitespace and returns the non-empty keywords.
// An empty or blank input yields an empty, non-nil slice.
func ParseKeywords(raw string, maxCount, maxLength int) ([]string, error) {
	fields := strings.Fields(raw)
	if len(fields) > maxCount {
		return nil, fmt.Errorf("%w: must be at most %d", ErrTooManyKeywords, maxCount)
	}
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > maxLength {
			return nil, fmt.Errorf("%w: must be at most %d characters", ErrKeywordTooLong, maxLength)
		}
		keywords = append(keywords, f)
	}
	return keywords, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeILIKE escapes LIKE metacharacters in keyword and wraps it in % for a
// substring match. PostgreSQL uses backslash as the default LIKE escape.
func EscapeILIKE(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// Contains reports whether text contains keyword, ignoring case.
// It is the in-memory equivalent of ILIKE with an escaped pattern.
func Contains(text, keyword string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}
