package common

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"
)

type ctxKey string

const (
	CtxUserID ctxKey = "user_id"
	CtxHandle ctxKey = "handle"
)

// UserFromContext returns the authenticated user id injected by AuthMiddleware.
func UserFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxUserID).(string)
	return id, ok
}

// AuthMiddleware enforces a Bearer token on every route it wraps and injects
// the caller's identity into the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" {
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}

		// Authorization: Bearer <token>
		parts := strings.Fields(authz)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid auth header", http.StatusUnauthorized)
			return
		}

		claims, err := ValidToken(parts[1])
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, CtxHandle, claims.Handle)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs every request with its duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("→ %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("✓ %s %s completed (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}
