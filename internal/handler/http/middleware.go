package http

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"blog-admin/internal/handler/http/pathutil"
	"blog-admin/internal/handler/http/respond"
	"blog-admin/internal/handler/http/responsewriter"
	"blog-admin/internal/observability/logging"
	"blog-admin/internal/observability/metrics"
)

// Input limits enforced by InputLimits.
const (
	MaxAuthorizationHeader = 8 << 10
	MaxPathLength          = 2 << 10
	DefaultMaxBodyBytes    = 1 << 20
)

// Logging returns middleware that stores a request-scoped logger in the
// context and logs every completed request with its status, size and duration.
// It also records the HTTP request metrics under the normalized path.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logging.WithRequestID(r.Context(), logger)
			wrapped := responsewriter.Wrap(w)

			next.ServeHTTP(wrapped, r.WithContext(logging.WithLogger(r.Context(), reqLogger)))

			duration := time.Since(start)
			status := wrapped.StatusCode()
			metrics.RecordHTTPRequest(r.Method, pathutil.NormalizePath(r.URL.Path), strconv.Itoa(status), duration, wrapped.BytesWritten())

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			reqLogger.LogAttrs(r.Context(), level, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.Int("status", status),
				slog.Int("bytes", wrapped.BytesWritten()),
				slog.Duration("duration", duration),
			)
		})
	}
}

// Recover returns middleware that catches panics, logs them with the stack
// and answers 500 Internal Server Error.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.WithRequestID(r.Context(), logger).Error("panic recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
				respond.SafeError(w, http.StatusInternalServerError, errors.New("internal error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LimitRequestBody returns middleware that limits the size of request bodies.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// InputLimits rejects oversized Authorization headers and URI paths.
func InputLimits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.Header.Get("Authorization")) > MaxAuthorizationHeader {
			respond.Error(w, http.StatusBadRequest, errors.New("authorization header too large"))
			return
		}
		if len(r.URL.Path) > MaxPathLength {
			respond.Error(w, http.StatusRequestURITooLong, errors.New("URI too long"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Chain applies middlewares so that the first one is the outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
