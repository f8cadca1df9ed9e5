package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohankarki/utsavhub-backend/pkg/enums"
)

// Booking is the core stateful entity: a customer's request to reserve a
// listing for a date range. Bookings are never deleted; after creation only
// status, the advance-proof fields, and the review fields may change.
//
// StorefrontID is denormalized from the listing at creation so the record
// survives a later hard delete of the listing.
type Booking struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID      uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	StorefrontID    uuid.UUID           `gorm:"column:storefront_id;type:uuid;not null;index"`
	ListingID       uuid.UUID           `gorm:"column:listing_id;type:uuid;not null"`
	StartDate       time.Time           `gorm:"column:start_date;type:date;not null"`
	EndDate         time.Time           `gorm:"column:end_date;type:date;not null"`
	Address         string              `gorm:"column:address;not null"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(14,2);not null"`
	AdvanceProofRef *string             `gorm:"column:advance_proof_ref"`
	AdvanceVerified bool                `gorm:"column:advance_verified;not null;default:false"`
	ReviewRating    *int                `gorm:"column:review_rating"`
	ReviewComment   *string             `gorm:"column:review_comment"`
	Status          enums.BookingStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
