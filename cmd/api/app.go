package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"blog-admin/internal/admin"
	"blog-admin/internal/admin/blogadmin"
	"blog-admin/internal/config"
	hhttp "blog-admin/internal/handler/http"
	hadmin "blog-admin/internal/handler/http/admin"
	harticle "blog-admin/internal/handler/http/article"
	hauth "blog-admin/internal/handler/http/auth"
	"blog-admin/internal/handler/http/requestid"
	"blog-admin/internal/infra/adapter/persistence/memory"
	pgRepo "blog-admin/internal/infra/adapter/persistence/postgres"
	"blog-admin/internal/infra/db"
	"blog-admin/internal/observability/tracing"
	"blog-admin/internal/repository"
	"blog-admin/internal/resilience/circuitbreaker"
	artUC "blog-admin/internal/usecase/article"
	userUC "blog-admin/internal/usecase/user"
)

// app is the wired service: repositories, use cases, the admin site and the HTTP handler.
type app struct {
	Handler   http.Handler
	Site      *admin.Site
	Articles  *artUC.Service
	Users     *userUC.Service
	StoreKind string

	db *sql.DB
}

func (a *app) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		slog.Error("failed to close database", slog.Any("error", err))
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	if err := hauth.ValidateSecret(cfg.Auth.JWTSecret); err != nil {
		return nil, fmt.Errorf("JWT_SECRET: %w", err)
	}

	a := &app{}
	var (
		articleRepo repository.ArticleRepository
		userRepo    repository.UserRepository
		health      = &hhttp.HealthHandler{Version: cfg.Version}
	)

	if db.IsMemoryDSN(cfg.Database.URL) {
		store := memory.NewStore()
		articleRepo, userRepo = store.Articles(), store.Users()
		a.StoreKind = "memory"
	} else {
		database, err := db.Open(ctx, cfg.Database.URL, cfg.Database.Pool)
		if err != nil {
			return nil, err
		}
		a.db = database
		if cfg.Database.AutoMigrate {
			if err := db.MigrateUp(ctx, database); err != nil {
				a.Close()
				return nil, fmt.Errorf("migrate database: %w", err)
			}
		}
		breaker := circuitbreaker.NewDBCircuitBreaker(database)
		articleRepo, userRepo = pgRepo.NewArticleRepo(breaker), pgRepo.NewUserRepo(breaker)
		health.DB, health.Stats, health.Breaker = breaker, database.Stats, breaker
		a.StoreKind = "postgres"
	}

	a.Users = &userUC.Service{Repo: userRepo, Articles: articleRepo}
	a.Articles = &artUC.Service{Repo: articleRepo, Users: userRepo}

	a.Site = admin.NewSite()
	if err := blogadmin.Setup(a.Site, a.Articles, a.Users); err != nil {
		a.Close()
		return nil, fmt.Errorf("admin setup: %w", err)
	}

	a.Handler = buildHandler(cfg, logger, a, health)
	return a, nil
}

// buildHandler mounts every route and wraps the mux with the middleware chain:
// tracing, request ID, input limits, rate limit, recovery, logging, body limit, authorization.
func buildHandler(cfg *config.Config, logger *slog.Logger, a *app, health *hhttp.HealthHandler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /health", health)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /live", health.Live)
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	harticle.Register(mux, a.Articles, cfg.Pagination, logger)
	hadmin.Register(mux, &hadmin.Handler{Site: a.Site, PaginationCfg: cfg.Pagination})

	limiter := hhttp.NewRateLimiter(hhttp.RateLimitConfig{
		Enabled:           cfg.RateLimit.Enabled,
		RPS:               cfg.RateLimit.RPS,
		Burst:             cfg.RateLimit.Burst,
		IdleTTL:           cfg.RateLimit.IdleTTL,
		TrustProxyHeaders: cfg.RateLimit.TrustProxyHeaders,
	})
	if !cfg.RateLimit.Enabled {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	return hhttp.Chain(mux,
		tracing.Middleware,
		requestid.Middleware,
		hhttp.InputLimits,
		limiter.Limit,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(cfg.HTTP.MaxBodyBytes),
		hauth.Authz([]byte(cfg.Auth.JWTSecret)),
	)
}
