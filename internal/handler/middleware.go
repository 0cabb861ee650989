package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/msomdec/hublocal-manager/internal/domain"
	"github.com/msomdec/hublocal-manager/internal/metrics"
	"github.com/msomdec/hublocal-manager/internal/security/token"
	"github.com/msomdec/hublocal-manager/internal/service"
)

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityFromContext extracts the authenticated identity from the request
// context. ok is false if the request is unauthenticated.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(domain.Identity)
	return id, ok
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// RequireAuth is middleware that protects routes requiring authentication.
// It reads the bearer token, verifies it, loads the user from the database,
// and injects the user's identity into the request context.
func RequireAuth(auth *service.AuthService, m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			m.TokenRejected("missing")
			writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}

		user, err := auth.Authenticate(r.Context(), raw)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				respondError(w, r, "authenticate request", err)
				return
			}

			reason, message := "invalid", "unauthorized"
			switch {
			case errors.Is(err, token.ErrExpired):
				reason, message = "expired", "token expired"
			case !errors.Is(err, token.ErrInvalid):
				reason = "unknown_subject"
			}
			slog.Warn("bearer token rejected", "reason", reason, "path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()))
			m.TokenRejected(reason)
			writeError(w, r, http.StatusUnauthorized, message)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), user.Identity())))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, value, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// RateLimit rejects requests with 429 once the client's bucket is empty.
// Clients are keyed by remote IP.
func RateLimit(limiter *service.TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(limiter.RetryAfter().Seconds())))
			writeError(w, r, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// SecurityHeaders sets conservative response headers for a JSON API.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request and records its latency. It must
// wrap the ServeMux directly so the matched route pattern is visible.
func RequestLogger(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}

			m.ObserveRequest(r.Method, route, status, elapsed)
			slog.Info("http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", elapsed,
			)
		})
	}
}
