package article

import (
	"log/slog"
	"net/http"

	"blog-admin/internal/common/pagination"
	artUC "blog-admin/internal/usecase/article"
)

// Register mounts the read-only article routes on mux.
func Register(mux *http.ServeMux, svc *artUC.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /articles", ListHandler{Svc: svc, PaginationCfg: paginationCfg, Logger: logger})
	mux.Handle("GET /articles/search", SearchHandler{Svc: svc, PaginationCfg: paginationCfg})
	mux.Handle("GET /articles/{id}", GetHandler{Svc: svc})
}
