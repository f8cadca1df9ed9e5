package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
)

// CreateBookingInput carries the validated fields for opening a booking.
// Dates are date-only values; the API layer parses them from 2006-01-02 form.
type CreateBookingInput struct {
	ListingID uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Address   string
}

// TransitionInput is the payload accompanying a status transition. ProofRef
// is required when moving to advance_paid; Rating and Comment when moving to
// reviewed.
type TransitionInput struct {
	Target   string
	ProofRef *string
	Rating   *int
	Comment  *string
}

// Actor identifies the principal requesting a transition. StorefrontID is set
// only for vendors and comes from the authenticated session, never from the
// request body.
type Actor struct {
	PrincipalID  uuid.UUID
	Role         enums.PrincipalRole
	StorefrontID *uuid.UUID
}

// BookingDTO is the read shape returned to controllers.
type BookingDTO struct {
	ID              uuid.UUID           `json:"id"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	StorefrontID    uuid.UUID           `json:"storefront_id"`
	ListingID       uuid.UUID           `json:"listing_id"`
	StartDate       time.Time           `json:"start_date"`
	EndDate         time.Time           `json:"end_date"`
	Address         string              `json:"address"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	AdvanceProofRef *string             `json:"advance_proof_ref,omitempty"`
	AdvanceVerified bool                `json:"advance_verified"`
	ReviewRating    *int                `json:"review_rating,omitempty"`
	ReviewComment   *string             `json:"review_comment,omitempty"`
	Status          enums.BookingStatus `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
}

// CreateBookingDTO carries the fields persisted at creation.
type CreateBookingDTO struct {
	CustomerID   uuid.UUID
	StorefrontID uuid.UUID
	ListingID    uuid.UUID
	StartDate    time.Time
	EndDate      time.Time
	Address      string
	TotalAmount  decimal.Decimal
}

// ToDTO maps the model to its read shape.
func ToDTO(booking *models.Booking) BookingDTO {
	return BookingDTO{
		ID:              booking.ID,
		CustomerID:      booking.CustomerID,
		StorefrontID:    booking.StorefrontID,
		ListingID:       booking.ListingID,
		StartDate:       booking.StartDate,
		EndDate:         booking.EndDate,
		Address:         booking.Address,
		TotalAmount:     booking.TotalAmount,
		AdvanceProofRef: booking.AdvanceProofRef,
		AdvanceVerified: booking.AdvanceVerified,
		ReviewRating:    booking.ReviewRating,
		ReviewComment:   booking.ReviewComment,
		Status:          booking.Status,
		CreatedAt:       booking.CreatedAt,
	}
}
