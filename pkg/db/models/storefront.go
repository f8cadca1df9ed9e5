package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Storefront is a vendor's public shop. Exactly one exists per vendor
// principal; it is created in the same transaction as the principal.
type Storefront struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerPrincipalID uuid.UUID       `gorm:"column:owner_principal_id;type:uuid;not null;uniqueIndex"`
	DisplayName      string          `gorm:"column:display_name;not null"`
	PaymentHandle    *string         `gorm:"column:payment_handle"`
	AdvancePercent   int             `gorm:"column:advance_percent;not null;default:10"`
	RatingCount      int             `gorm:"column:rating_count;not null;default:0"`
	RatingTotal      int             `gorm:"column:rating_total;not null;default:0"`
	EarningsTotal    decimal.Decimal `gorm:"column:earnings_total;type:numeric(14,2);not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// AverageRating derives the display rating from the raw aggregate.
func (s Storefront) AverageRating() float64 {
	if s.RatingCount == 0 {
		return 0
	}
	return float64(s.RatingTotal) / float64(s.RatingCount)
}
