package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rohankarki/utsavhub-backend/api/responses"
	"github.com/rohankarki/utsavhub-backend/api/validators"
	"github.com/rohankarki/utsavhub-backend/internal/catalog"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
	"github.com/rohankarki/utsavhub-backend/pkg/logger"
)

// BrowseListings serves the public storefront directory, optionally filtered
// by category.
func BrowseListings(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := strings.TrimSpace(r.URL.Query().Get("category"))

		groups, err := svc.Browse(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"storefronts": groups})
	}
}

// GetListing serves one listing by id.
func GetListing(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := validators.ParsePathUUID(chi.URLParam(r, "listingID"), "listingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.GetByID(r.Context(), listingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"listing": listing})
	}
}

// ListStorefrontListings serves a storefront's listings.
func ListStorefrontListings(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storefrontID, err := validators.ParsePathUUID(chi.URLParam(r, "storefrontID"), "storefrontID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listings, err := svc.ListByStorefront(r.Context(), storefrontID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"listings": listings})
	}
}

// PublishListing creates a listing under the vendor's own storefront.
func PublishListing(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		storefrontID, err := storefrontIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body catalog.PublishListingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Publish(r.Context(), storefrontID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"listing": listing})
	}
}

// UpdateListing mutates a listing owned by the requesting vendor.
func UpdateListing(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := validators.ParsePathUUID(chi.URLParam(r, "listingID"), "listingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		principalID, err := principalIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body catalog.UpdateListingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Update(r.Context(), listingID, principalID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"listing": listing})
	}
}

// DeleteListing removes a listing owned by the requesting vendor.
func DeleteListing(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := validators.ParsePathUUID(chi.URLParam(r, "listingID"), "listingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		principalID, err := principalIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), listingID, principalID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
