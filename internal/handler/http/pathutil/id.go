package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a path segment such as the value of r.PathValue("id").
// It returns ErrInvalidID unless the segment is a positive integer.
//
// Example:
//
//	id, err := ParseID(r.PathValue("id"))
func ParseID(segment string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(segment), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
