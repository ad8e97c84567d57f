package controllers

import (
	"net/http"

	"github.com/meridianpress/meridian-backend/api/responses"
	"github.com/meridianpress/meridian-backend/api/validators"
	membersvc "github.com/meridianpress/meridian-backend/internal/member"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type modalRequest struct {
	Open *bool `json:"open" validate:"required"`
}

type loginResponse struct {
	SignedIn bool             `json:"signed_in"`
	Member   *membersvc.State `json:"member"`
}

// MemberCurrent returns the visitor's membership state.
func MemberCurrent(svc membersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.Current(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// MemberLogin checks the email against the member directory. The response is
// 200 either way; signed_in tells the storefront whether to close the modal
// or show the "not a member" message.
func MemberLogin(svc membersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ok, state, err := svc.Login(r.Context(), id, payload.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, loginResponse{SignedIn: ok, Member: state})
	}
}

// MemberLogout clears the persisted membership state.
func MemberLogout(svc membersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Logout(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"signed_in": false})
	}
}

// MemberModal persists the sign-in modal visibility flag.
func MemberModal(svc membersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload modalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.SetModalOpen(r.Context(), id, *payload.Open)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}
