package storefronts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
)

// StorefrontDTO is the read shape returned to controllers.
type StorefrontDTO struct {
	ID               uuid.UUID       `json:"id"`
	OwnerPrincipalID uuid.UUID       `json:"owner_principal_id"`
	DisplayName      string          `json:"display_name"`
	PaymentHandle    *string         `json:"payment_handle,omitempty"`
	AdvancePercent   int             `json:"advance_percent"`
	AverageRating    float64         `json:"average_rating"`
	RatingCount      int             `json:"rating_count"`
	EarningsTotal    decimal.Decimal `json:"earnings_total"`
	CreatedAt        time.Time       `json:"created_at"`
}

// UpdateStorefrontInput captures the storefront fields a vendor may change.
type UpdateStorefrontInput struct {
	DisplayName    *string `json:"display_name,omitempty"`
	PaymentHandle  *string `json:"payment_handle,omitempty"`
	AdvancePercent *int    `json:"advance_percent,omitempty"`
}

// CreateStorefrontDTO carries the fields needed at vendor registration.
type CreateStorefrontDTO struct {
	OwnerPrincipalID uuid.UUID
	DisplayName      string
}

// ToDTO maps the model to its read shape.
func ToDTO(storefront *models.Storefront) *StorefrontDTO {
	if storefront == nil {
		return nil
	}
	return &StorefrontDTO{
		ID:               storefront.ID,
		OwnerPrincipalID: storefront.OwnerPrincipalID,
		DisplayName:      storefront.DisplayName,
		PaymentHandle:    storefront.PaymentHandle,
		AdvancePercent:   storefront.AdvancePercent,
		AverageRating:    storefront.AverageRating(),
		RatingCount:      storefront.RatingCount,
		EarningsTotal:    storefront.EarningsTotal,
		CreatedAt:        storefront.CreatedAt,
	}
}
