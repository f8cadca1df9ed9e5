package views

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohankarki/utsavhub-backend/pkg/enums"
)

// ListingSummary is the listing slice of a booking view. It is nil when the
// listing was removed after the booking was placed.
type ListingSummary struct {
	ID       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Rate     decimal.Decimal `json:"rate"`
	UnitType string          `json:"unit_type"`
}

// BookingView is a booking enriched for display: the listing snapshot plus
// the counterparty's display fields.
type BookingView struct {
	ID              uuid.UUID           `json:"id"`
	Status          enums.BookingStatus `json:"status"`
	StartDate       time.Time           `json:"start_date"`
	EndDate         time.Time           `json:"end_date"`
	Address         string              `json:"address"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	AdvanceProofRef *string             `json:"advance_proof_ref,omitempty"`
	ReviewRating    *int                `json:"review_rating,omitempty"`
	ReviewComment   *string             `json:"review_comment,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`

	Listing *ListingSummary `json:"listing"`

	StorefrontID   uuid.UUID `json:"storefront_id"`
	StorefrontName string    `json:"storefront_name"`

	CustomerID     uuid.UUID `json:"customer_id"`
	CustomerName   string    `json:"customer_name"`
	CustomerMobile string    `json:"customer_mobile"`
}

// Page is one cursor page of booking views. NextCursor is empty on the last
// page.
type Page struct {
	Items      []BookingView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}
