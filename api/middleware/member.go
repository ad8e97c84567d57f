package middleware

import (
	"context"
	"net/http"

	"github.com/meridianpress/meridian-backend/api/responses"
	"github.com/meridianpress/meridian-backend/internal/member"
	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

type membershipChecker interface {
	Current(ctx context.Context, visitorID string) (*member.State, error)
}

// RequireMember gates member-only content behind the persisted sign-in
// state. Anonymous visitors get an unauthorized response the storefront
// turns into the sign-in modal.
func RequireMember(members membershipChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			visitorID := VisitorIDFromContext(ctx)
			if visitorID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "membership required"))
				return
			}

			state, err := members.Current(ctx, visitorID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if !state.SignedIn {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "membership required"))
				return
			}

			if logg != nil && state.Email != "" {
				ctx = logg.WithMemberEmail(ctx, state.Email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
