package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rohankarki/utsavhub-backend/api/responses"
	"github.com/rohankarki/utsavhub-backend/api/validators"
	"github.com/rohankarki/utsavhub-backend/internal/bookings"
	"github.com/rohankarki/utsavhub-backend/internal/views"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
	"github.com/rohankarki/utsavhub-backend/pkg/logger"
	"github.com/rohankarki/utsavhub-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

type createBookingBody struct {
	ListingID string `json:"listing_id" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Address   string `json:"address" validate:"required"`
}

type transitionBookingBody struct {
	Target   string  `json:"target" validate:"required"`
	ProofRef *string `json:"proof_ref,omitempty"`
	Rating   *int    `json:"rating,omitempty"`
	Comment  *string `json:"comment,omitempty"`
}

func parseDate(value, field string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid date").
			WithDetails(map[string]any{"field": field, "expected": dateLayout})
	}
	return parsed, nil
}

// CreateBooking opens a pending booking for the authenticated customer.
func CreateBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		customerID, err := principalIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createBookingBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listingID, err := uuid.Parse(body.ListingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing id"))
			return
		}
		start, err := parseDate(body.StartDate, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := parseDate(body.EndDate, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Create(r.Context(), customerID, bookings.CreateBookingInput{
			ListingID: listingID,
			StartDate: start,
			EndDate:   end,
			Address:   body.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"booking": booking})
	}
}

// TransitionBooking moves a booking along its lifecycle on behalf of the
// authenticated party.
func TransitionBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := validators.ParsePathUUID(chi.URLParam(r, "bookingID"), "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body transitionBookingBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Transition(r.Context(), bookingID, actor, bookings.TransitionInput{
			Target:   body.Target,
			ProofRef: body.ProofRef,
			Rating:   body.Rating,
			Comment:  body.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"booking": booking})
	}
}

// GetBooking serves one booking to either of its parties.
func GetBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := validators.ParsePathUUID(chi.URLParam(r, "bookingID"), "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.GetByID(r.Context(), bookingID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"booking": booking})
	}
}

// ListMyBookings serves the authenticated principal's booking dashboard,
// newest first with cursor paging.
func ListMyBookings(svc views.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.BookingsForPrincipal(r.Context(), actor.PrincipalID, actor.Role, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
