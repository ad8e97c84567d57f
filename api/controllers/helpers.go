package controllers

import (
	"net/http"

	"github.com/meridianpress/meridian-backend/api/middleware"
	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
)

// visitorID pulls the visitor identity seeded by the visitor middleware.
// Every per-visitor endpoint needs it, so a missing identity is a hard stop.
func visitorID(r *http.Request) (string, error) {
	id := middleware.VisitorIDFromContext(r.Context())
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "visitor identity unavailable")
	}
	return id, nil
}
