package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-admin/internal/config"
	hauth "blog-admin/internal/handler/http/auth"
	userUC "blog-admin/internal/usecase/user"
)

const testSecret = "k7Qw9zR2mX4vB8nL1pT6yH3jF5sD0gCe"

func newTestApp(t *testing.T) *app {
	t.Helper()
	cfg := config.Default()
	cfg.Database.URL = "memory://"
	cfg.Auth.JWTSecret = testSecret
	cfg.RateLimit.Enabled = false

	a, err := newApp(context.Background(), &cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := hauth.IssueToken([]byte(testSecret), "tester", role, time.Hour, time.Now())
	require.NoError(t, err)
	return "Bearer " + tok
}

func serve(a *app, method, target, authz, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	return rec
}

func TestNewApp_RejectsWeakSecret(t *testing.T) {
	cfg := config.Default()
	cfg.Database.URL = "memory://"
	cfg.Auth.JWTSecret = "short"

	_, err := newApp(context.Background(), &cfg, slog.Default())
	assert.ErrorIs(t, err, hauth.ErrWeakSecret)
}

func TestHandler_PublicEndpoints(t *testing.T) {
	a := newTestApp(t)

	for _, target := range []string{"/health", "/ready", "/live", "/metrics", "/articles"} {
		rec := serve(a, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), target)
	}
}

func TestHandler_AdminRequiresToken(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, http.StatusUnauthorized, serve(a, http.MethodGet, "/admin/", "", "").Code)
	assert.Equal(t, http.StatusOK, serve(a, http.MethodGet, "/admin/", token(t, hauth.RoleViewer), "").Code)
	assert.Equal(t, http.StatusForbidden,
		serve(a, http.MethodPost, "/admin/user/add/", token(t, hauth.RoleViewer), `{"username":"eve"}`).Code)
}

func TestHandler_AdminRoundTrip(t *testing.T) {
	a := newTestApp(t)
	admin := token(t, hauth.RoleAdmin)

	u, err := a.Users.Create(context.Background(), userUC.CreateInput{Username: "alice"})
	require.NoError(t, err)

	rec := serve(a, http.MethodPost, "/admin/article/add/", admin,
		`{"title":"Hello","body":"First post","author":`+itoaID(u.ID)+`}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(a, http.MethodGet, "/articles/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"author":"alice"`)

	rec = serve(a, http.MethodGet, "/admin/article/?q=first", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Hello"`)
}

func TestHandler_UnknownRoute(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, http.StatusNotFound, serve(a, http.MethodGet, "/nope", token(t, hauth.RoleAdmin), "").Code)
}

func itoaID(id int64) string { return strconv.FormatInt(id, 10) }
