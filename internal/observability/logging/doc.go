// Package logging builds the application's slog loggers and carries a
// request-scoped logger through context.Context.
//
// Loggers write JSON by default; LOG_FORMAT=text switches to the text handler
// for local development. WithRequestID decorates a logger with the request ID
// set by the requestid middleware and, when a span is active, its trace ID:
//
//	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
//	slog.SetDefault(logger)
//
//	func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    logging.FromContext(r.Context()).Info("changelist rendered", slog.String("model", "article"))
//	}
package logging
