package controllers

import (
	"net/http"

	"github.com/rohankarki/utsavhub-backend/api/middleware"
	"github.com/rohankarki/utsavhub-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if storefront := middleware.StorefrontIDFromContext(r.Context()); storefront != "" {
			payload["storefront_id"] = storefront
		}
		responses.WriteSuccess(w, payload)
	}
}
