package chi

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/siftlabs/docsift/internal/domain"
	"github.com/siftlabs/docsift/internal/metrics"
	"github.com/siftlabs/docsift/internal/ratelimit"
	"github.com/siftlabs/docsift/internal/usecase/auth"
)

// authExemptPaths are routes that bypass authentication.
var authExemptPaths = map[string]struct{}{
	"/health":        {},
	"/metrics":       {},
	"/auth/register": {},
	"/auth/login":    {},
}

// limitExemptPaths are routes that bypass rate limiting. Auth endpoints stay
// limited to slow down credential stuffing.
var limitExemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

type principalKey struct{}

// PrincipalFromContext returns the authenticated user, if any.
func PrincipalFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(principalKey{}).(*domain.User)
	return u, ok
}

// TokenVerifier resolves a bearer token to an account.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens and
// stores the authenticated user in the request context.
func BearerAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := authExemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(header, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, codeUnauthorized,
					"authorization header must use Bearer scheme")
				return
			}

			user, err := verifier.VerifyToken(r.Context(), header[len(bearerPrefix):])
			if err != nil {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware returns a middleware enforcing a per-client sliding
// window. Clients are keyed by a fingerprint of address and user agent, so
// the limit holds across accounts.
func RateLimitMiddleware(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	windowSec := int(limiter.Window() / time.Second)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := limitExemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			fp := auth.Fingerprint(clientAddr(r), r.UserAgent())

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Max()))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(limiter.Window()).Unix(), 10))
			if !limiter.Admit(fp) {
				metrics.RateLimitedTotal.Inc()
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(windowSec))
				writeError(w, http.StatusTooManyRequests, codeRateLimited, domain.ErrRateLimited.Error())
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(fp)))

			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr strips the port from RemoteAddr so a client keeps one
// fingerprint across connections.
func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// SecurityHeaders sets baseline security response headers.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Content-Security-Policy", "default-src 'none'")
			next.ServeHTTP(w, r)
		})
	}
}
