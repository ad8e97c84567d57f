package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/meridianpress/meridian-backend/api/responses"
	"github.com/meridianpress/meridian-backend/pkg/config"
	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// LoginRateLimit throttles sign-in attempts per client IP and per submitted
// email. The member directory does no credential checking, so this counter
// is the only thing standing between the login endpoint and an email
// enumeration sweep.
func LoginRateLimit(cfg config.LoginRateLimitConfig, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || cfg.Window <= 0 || (cfg.IPLimit <= 0 && cfg.EmailLimit <= 0) {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if cfg.IPLimit > 0 {
				if ip := clientIP(r); ip != "" {
					scope := fmt.Sprintf("login:ip:%s", ip)
					if blocked := enforce(ctx, logg, w, store, scope, cfg.Window, int64(cfg.IPLimit)); blocked {
						return
					}
				}
			}

			if cfg.EmailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := normalizeEmail(extractEmail(body)); email != "" {
					scope := fmt.Sprintf("login:email:%s", hashValue(email))
					if blocked := enforce(ctx, logg, w, store, scope, cfg.Window, int64(cfg.EmailLimit)); blocked {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// enforce bumps the counter for key and writes the rate-limit response when
// the limit is exceeded. It reports whether the request was blocked.
func enforce(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, store rateLimiterStore, scope string, window time.Duration, limit int64) bool {
	count, err := store.IncrWithTTL(ctx, store.RateLimitKey(scope), window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return true
	}
	if count <= limit {
		return false
	}
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(window.Seconds()),
		})
		logg.Warn(logCtx, "login.rate_limit.blocked")
	}
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many sign-in attempts"))
	return true
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
