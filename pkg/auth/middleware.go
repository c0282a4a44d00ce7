package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/acadia-dev/acadia/pkg/api"
	"github.com/acadia-dev/acadia/pkg/observability"
	"github.com/acadia-dev/acadia/pkg/transport"
)

// Middleware creates HTTP middleware from a Chain and an optional
// RateLimiter. It is applied per protected route: list and detail reads
// are public and never pass through it. On success the principal is
// injected into the request context.
func Middleware(chain *Chain, limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := chain.Authenticate(r.Context(), r)

			if result.Decision != Yes || result.Principal == nil {
				// A store failure during the credential lookup is a server
				// error, not a credential failure. The detail stays in the
				// log; the client sees the generic message.
				if result.Err != nil && !errors.Is(result.Err, ErrUnauthenticated) {
					slog.Error("authentication lookup failed",
						"path", r.URL.Path,
						"error", result.Err.Error(),
					)
					transport.WriteError(w, r, api.NewInternalError())
					return
				}
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				observability.AuthFailuresTotal.Inc()
				writeJSON(w, http.StatusUnauthorized, `{"message":"Access Denied"}`)
				return
			}

			if limiter != nil {
				if err := limiter.Allow(r.Context(), result.Principal); err != nil {
					slog.Warn("rate limit exceeded", "principal_id", result.Principal.ID)
					observability.RateLimitRejectedTotal.Inc()
					writeJSON(w, http.StatusTooManyRequests, `{"message":"rate limit exceeded"}`)
					return
				}
			}

			slog.Debug("authentication succeeded",
				"principal_id", result.Principal.ID,
				"path", r.URL.Path,
			)

			ctx := SetPrincipal(r.Context(), result.Principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
