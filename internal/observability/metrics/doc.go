// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Business metrics (article writes, cascades, admin actions)
//   - Database query and connection pool metrics
//
// All metrics are registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "blog-admin/internal/observability/metrics"
//
//	func createArticle() {
//	    start := time.Now()
//	    // ... insert article ...
//	    metrics.RecordArticleCreated()
//	    metrics.RecordDBQuery("article.create", time.Since(start))
//	}
package metrics
