package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rohankarki/utsavhub-backend/api/responses"
	"github.com/rohankarki/utsavhub-backend/api/validators"
	"github.com/rohankarki/utsavhub-backend/internal/storefronts"
	"github.com/rohankarki/utsavhub-backend/pkg/logger"
)

// GetStorefront serves a storefront's public profile.
func GetStorefront(svc storefronts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storefrontID, err := validators.ParsePathUUID(chi.URLParam(r, "storefrontID"), "storefrontID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storefront, err := svc.GetByID(r.Context(), storefrontID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"storefront": storefront})
	}
}

// GetMyStorefront serves the authenticated vendor's own storefront.
func GetMyStorefront(svc storefronts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principalID, err := principalIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storefront, err := svc.GetByOwner(r.Context(), principalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"storefront": storefront})
	}
}

// UpdateMyStorefront mutates the authenticated vendor's storefront profile.
func UpdateMyStorefront(svc storefronts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principalID, err := principalIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body storefronts.UpdateStorefrontInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storefront, err := svc.Update(r.Context(), principalID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"storefront": storefront})
	}
}
