package auth

import (
	"slices"
	"strings"
)

// Role constants define the available user roles in the system.
// These roles are used in JWT claims and permission checks.
const (
	// RoleAdmin has full access to all endpoints and methods
	RoleAdmin = "admin"
	// RoleViewer has read-only access to the admin site and articles
	RoleViewer = "viewer"
)

// Permission defines the allowed operations for a role.
type Permission struct {
	// AllowedMethods specifies which HTTP methods this role can use
	AllowedMethods []string

	// AllowedPaths specifies which URL paths this role can access.
	// "/*" matches all paths, "/admin/*" matches /admin and everything below it.
	AllowedPaths []string
}

// RolePermissions maps each role to its allowed permissions.
//
// Security Model:
// - Admin: Full access to all endpoints and methods
// - Viewer: GET on the admin site and the article API
var RolePermissions = map[string]Permission{
	RoleAdmin: {
		AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedPaths:   []string{"/*"},
	},
	RoleViewer: {
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedPaths: []string{
			"/admin/*",
			"/articles/*",
		},
	},
}

// IsValidRole reports whether role has an entry in RolePermissions.
func IsValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// checkRolePermission checks if a role has permission for a method and path.
// Returns false if the role doesn't exist or lacks permission.
//
// Example:
//
//	checkRolePermission("admin", "POST", "/admin/article/add/")  // true
//	checkRolePermission("viewer", "GET", "/admin/article/")      // true
//	checkRolePermission("viewer", "POST", "/admin/article/add/") // false (method not allowed)
//	checkRolePermission("viewer", "GET", "/metrics/x")           // false (path not allowed)
func checkRolePermission(role, method, path string) bool {
	perm, exists := RolePermissions[role]
	if !exists {
		return false
	}
	if !slices.Contains(perm.AllowedMethods, method) {
		return false
	}
	return matchesPathPattern(path, perm.AllowedPaths)
}

// matchesPathPattern checks if a path matches any of the allowed patterns.
//
// Pattern Matching Rules:
// - "/*" matches all paths
// - "/articles/*" matches "/articles", "/articles/1", "/articles/search", etc.
// - "/articles" matches only "/articles" (exact match)
func matchesPathPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "/*" {
			return true
		}

		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}

		if path == pattern {
			return true
		}
	}
	return false
}
