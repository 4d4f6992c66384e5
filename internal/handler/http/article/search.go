package article

import (
	"errors"
	"fmt"
	"net/http"

	"blog-admin/internal/common/pagination"
	"blog-admin/internal/handler/http/respond"
	"blog-admin/internal/pkg/search"
	artUC "blog-admin/internal/usecase/article"
)

type SearchHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP serves GET /articles/search?keyword=.
// Every space-separated keyword must appear in the title or the body.
// The optional list filters and pagination parameters apply as well.
//
// @Summary      Search articles
// @Description  Case-insensitive multi-keyword search over title and body (AND logic)
// @Tags         articles
// @Produce      json
// @Param        keyword    query  string  true   "Search keywords (space separated)"
// @Param        author_id  query  int     false  "Only articles by this author"
// @Param        from       query  string  false  "Created on or after (YYYY-MM-DD)"
// @Param        to         query  string  false  "Created on or before (YYYY-MM-DD)"
// @Param        page       query  int     false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit      query  int     false  "Items per page" default(20) minimum(1) maximum(100)
// @Success      200 {object} pagination.Response[DTO] "Matching articles"
// @Failure      400 {string} string "Bad request - missing or invalid keyword"
// @Failure      500 {string} string "Server error"
// @Router       /articles/search [get]
func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kw := r.URL.Query().Get("keyword")
	if kw == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("keyword query param required"))
		return
	}
	keywords, err := search.ParseKeywords(kw, search.DefaultMaxKeywordCount, search.DefaultMaxKeywordLength)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid keyword: %w", err))
		return
	}
	if len(keywords) == 0 {
		respond.SafeError(w, http.StatusBadRequest, errors.New("keyword query param required"))
		return
	}

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	filters, err := parseFilters(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.List(r.Context(), artUC.ListInput{
		Keywords: keywords,
		Filters:  filters,
		Ordering: newestFirst,
		Params:   params,
	})
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, pagination.NewResponse(toDTOs(result.Data), result.Pagination))
}
