package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/meridianpress/meridian-backend/pkg/auth"
	"github.com/meridianpress/meridian-backend/pkg/config"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

// Visitor cookies outlive any single browsing session; the persisted cart
// and consent state is only useful if the identity sticks around too.
const visitorCookieMaxAge = 365 * 24 * time.Hour

// Visitor identifies the browser behind each request. A valid signed cookie
// is reused; anything else (missing, mangled, wrong issuer) is replaced with
// a fresh identity so the request always proceeds with a usable visitor ID.
func Visitor(cfg config.VisitorTokenConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			visitorID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				if claims, err := auth.ParseVisitorToken(cfg, cookie.Value); err == nil {
					visitorID = claims.VisitorID.String()
				} else if logg != nil {
					logg.Warn(ctx, "visitor cookie rejected, issuing a new identity")
				}
			}

			if visitorID == "" {
				id := uuid.New()
				token, err := auth.MintVisitorToken(cfg, time.Now(), id)
				if err != nil {
					// No identity means no persisted state, but the page
					// itself must still render.
					if logg != nil {
						logg.Error(ctx, "visitor token mint failed", err)
					}
					next.ServeHTTP(w, r)
					return
				}
				visitorID = id.String()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(visitorCookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx = WithVisitorID(ctx, visitorID)
			if logg != nil {
				ctx = logg.WithVisitorID(ctx, visitorID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
