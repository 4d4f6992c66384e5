package auth

import (
	"net/http"
	"strings"
)

// PublicEndpoints defines endpoints that don't require authentication.
//
// Justification for each public endpoint:
// - /health, /ready, /live: Required for orchestration health checks
// - /metrics: Required for Prometheus scraping
var PublicEndpoints = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
}

// PublicReadPrefixes are resource trees that anyone may read.
// Writes below them still require a token.
var PublicReadPrefixes = []string{
	"/articles",
}

// IsPublicEndpoint checks if a given path is a public endpoint.
//
// Endpoints require an exact match, a trailing slash or query parameters:
//
//	IsPublicEndpoint("/health")          // true
//	IsPublicEndpoint("/health?x=1")      // true (query params OK)
//	IsPublicEndpoint("/health/detail")   // false (subpath not allowed)
//	IsPublicEndpoint("/healthcheck")     // false (different endpoint)
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if path == endpoint || path == endpoint+"/" {
			return true
		}
		if strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}

// IsPublicRequest reports whether the request may proceed without a token.
// GET and HEAD below PublicReadPrefixes are public in addition to PublicEndpoints.
func IsPublicRequest(method, path string) bool {
	if IsPublicEndpoint(path) {
		return true
	}
	if method != http.MethodGet && method != http.MethodHead {
		return false
	}
	return matchesPathPattern(path, withWildcards(PublicReadPrefixes))
}

func withWildcards(prefixes []string) []string {
	out := make([]string, len(prefixes))
	for i, p := range prefixes {
		out[i] = p + "/*"
	}
	return out
}
