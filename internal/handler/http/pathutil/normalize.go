// Package pathutil parses and normalizes request paths.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
// Templates may refer to capture groups with ${n}.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/articles/\d+$`), Template: "/articles/:id"},
	{Pattern: regexp.MustCompile(`^/admin/([a-z_]+)/\d+/(change|delete)$`), Template: "/admin/${1}/:id/${2}"},
	{Pattern: regexp.MustCompile(`^/admin/[a-z_]+/.+/(change|delete)$`), Template: "/admin/:model/:id/${1}"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// It converts paths with IDs (e.g., /articles/123) to template format (e.g., /articles/:id).
//
// Examples:
//
//	NormalizePath("/articles/123")                 // "/articles/:id"
//	NormalizePath("/articles/search")              // "/articles/search" (unchanged)
//	NormalizePath("/admin/article/7/change/")      // "/admin/article/:id/change"
//	NormalizePath("/admin/user/")                  // "/admin/user"
//	NormalizePath("/articles/123?page=1")          // "/articles/:id"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Pattern.ReplaceAllString(path, p.Template)
		}
	}
	return path
}
