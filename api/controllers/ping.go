package controllers

import (
	"net/http"

	"github.com/meridianpress/meridian-backend/api/middleware"
	"github.com/meridianpress/meridian-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func VisitorPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "visitor", "status": "ok"}
		if id := middleware.VisitorIDFromContext(r.Context()); id != "" {
			payload["visitor_id"] = id
		}
		responses.WriteSuccess(w, payload)
	}
}
