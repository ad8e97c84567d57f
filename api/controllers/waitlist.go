package controllers

import (
	"net/http"

	"github.com/meridianpress/meridian-backend/api/responses"
	"github.com/meridianpress/meridian-backend/api/validators"
	waitlistsvc "github.com/meridianpress/meridian-backend/internal/waitlist"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

// WaitlistJoin records a newsletter/waitlist signup. A repeat email comes
// back as a conflict so the storefront can say "you're already on the list".
func WaitlistJoin(svc waitlistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload waitlistsvc.JoinInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		signup, err := svc.Join(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, signup)
	}
}
