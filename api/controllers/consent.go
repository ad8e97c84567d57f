package controllers

import (
	"net/http"

	"github.com/meridianpress/meridian-backend/api/responses"
	"github.com/meridianpress/meridian-backend/api/validators"
	consentsvc "github.com/meridianpress/meridian-backend/internal/consent"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

type consentRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accepted declined"`
}

type consentView struct {
	Decision string `json:"decision"`
	Decided  bool   `json:"decided"`
}

// ConsentFetch returns the visitor's cookie-consent decision. An undecided
// visitor gets decided=false, which keeps the banner up.
func ConsentFetch(svc consentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		decision, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, consentView{
			Decision: string(decision),
			Decided:  decision.Valid(),
		})
	}
}

// ConsentSubmit records the visitor's decision.
func ConsentSubmit(svc consentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload consentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		decision := consentsvc.Decision(payload.Decision)
		if err := svc.Set(r.Context(), id, decision); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, consentView{Decision: payload.Decision, Decided: true})
	}
}
