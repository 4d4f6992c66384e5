package article

import (
	"log/slog"
	"net/http"
	"time"

	"blog-admin/internal/common/pagination"
	"blog-admin/internal/handler/http/respond"
	"blog-admin/internal/observability/logging"
	"blog-admin/internal/repository"
	artUC "blog-admin/internal/usecase/article"
)

// newestFirst orders the public list by creation date, newest first.
var newestFirst = []repository.OrderBy{
	{Field: repository.OrderByCreatedAt, Desc: true},
	{Field: repository.OrderByID, Desc: true},
}

type ListHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP serves GET /articles?page=&limit=&author_id=&from=&to=.
//
// @Summary      List articles
// @Description  Returns one page of articles, newest first, with author names
// @Tags         articles
// @Produce      json
// @Param        page       query  int     false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit      query  int     false  "Items per page" default(20) minimum(1) maximum(100)
// @Param        author_id  query  int     false  "Only articles by this author"
// @Param        from       query  string  false  "Created on or after (YYYY-MM-DD)"
// @Param        to         query  string  false  "Created on or before (YYYY-MM-DD)"
// @Success      200 {object} pagination.Response[DTO] "Page of articles"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      429 {string} string "Too many requests - rate limit exceeded" headers(Retry-After=integer)
// @Failure      500 {string} string "Server error"
// @Router       /articles [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	logger := logging.WithRequestID(ctx, loggerOrDefault(h.Logger))

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters", slog.String("error", err.Error()))
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	filters, err := parseFilters(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.List(ctx, artUC.ListInput{
		Filters:  filters,
		Ordering: newestFirst,
		Params:   params,
	})
	if err != nil {
		logger.Error("failed to list articles",
			slog.Any("error", err),
			slog.Int("page", params.Page),
			slog.Int("limit", params.Limit))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Debug("article list served",
		slog.Int("page", params.Page),
		slog.Int("returned", len(result.Data)),
		slog.Int64("total", result.Pagination.Total),
		slog.Duration("duration", time.Since(start)))

	respond.JSON(w, http.StatusOK, pagination.NewResponse(toDTOs(result.Data), result.Pagination))
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
