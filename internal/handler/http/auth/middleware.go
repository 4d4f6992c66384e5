package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"blog-admin/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxUser ctxKey = "user"

// Principal is the authenticated caller.
type Principal struct {
	Subject string
	Role    string
}

// FromContext returns the principal stored by Authz.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxUser).(Principal)
	return p, ok
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxUser, p)
}

// Authz returns a middleware that requires a valid HS256 JWT signed with
// secret on every non-public request and enforces RolePermissions.
//
// Authorization Logic:
// 1. Public endpoints and public reads pass through without a token
// 2. Otherwise the Authorization header must carry a valid bearer token
// 3. The token's role must allow the request method and path
func Authz(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicRequest(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			p, err := validateJWT(r.Header.Get("Authorization"), secret, start)
			if err != nil {
				RecordAuthRequest("unknown", "failure")
				respond.Error(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}
			RecordAuthRequest(p.Role, "success")

			allowed := checkRolePermission(p.Role, r.Method, r.URL.Path)
			RecordAuthzCheckDuration(time.Since(start).Seconds())
			if !allowed {
				RecordForbiddenAttempt(p.Role, r.Method)
				slog.Default().Warn("forbidden request",
					slog.String("subject", p.Subject),
					slog.String("role", p.Role),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				respond.Error(w, http.StatusForbidden, errors.New("forbidden"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func validateJWT(authz string, secret []byte, now time.Time) (Principal, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return Principal{}, errors.New("missing bearer token")
	}
	tokenString := strings.TrimPrefix(authz, prefix)
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil || !tok.Valid {
		return Principal{}, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid claims")
	}
	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < now.Unix() {
		return Principal{}, errors.New("token expired")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Principal{}, errors.New("invalid sub claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return Principal{}, errors.New("invalid role claim")
	}
	return Principal{Subject: sub, Role: role}, nil
}
