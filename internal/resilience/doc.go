// Package resilience groups the fault tolerance helpers used around the database.
//
// Subpackages:
//   - circuitbreaker: a gobreaker-backed breaker that wraps *sql.DB so repositories
//     fail fast while PostgreSQL is unavailable
//   - retry: exponential backoff with jitter for transient connection failures
//
// Usage Example:
//
//	database, err := sql.Open("pgx", dsn)
//	err = retry.WithBackoff(ctx, retry.ConnectConfig(), "ping database", func(ctx context.Context) error {
//	    return database.PingContext(ctx)
//	})
//	repo := postgres.NewArticleRepo(circuitbreaker.NewDBCircuitBreaker(database))
package resilience
