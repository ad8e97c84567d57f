package controllers

import (
	"net/http"

	"github.com/meridianpress/meridian-backend/api/responses"
	"github.com/meridianpress/meridian-backend/api/validators"
	checkoutsvc "github.com/meridianpress/meridian-backend/internal/checkout"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

type handoffRequest struct {
	DeliveryEmail string `json:"delivery_email" validate:"required,email"`
}

// CheckoutHandoff resolves the external checkout destination for the
// visitor's cart and clears the cart.
func CheckoutHandoff(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload handoffRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		confirmation, err := svc.Handoff(r.Context(), id, payload.DeliveryEmail)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, confirmation)
	}
}
