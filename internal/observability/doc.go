// Package observability groups the logging, metrics and tracing infrastructure
// shared by the API server and blogctl.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers carried in the context
//   - metrics: Prometheus collectors for HTTP traffic, database queries and articles
//   - tracing: OpenTelemetry tracer setup and the HTTP server middleware
//
// Example usage:
//
//	import (
//	    "blog-admin/internal/observability/logging"
//	    "blog-admin/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.New(logging.Options{Level: "info"})
//	    logger.Info("application started")
//
//	    metrics.RecordArticleCreated()
//	}
package observability
