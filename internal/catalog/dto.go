package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohankarki/utsavhub-backend/internal/storefronts"
	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
)

// PublishListingRequest is the payload for publishing a new listing.
type PublishListingRequest struct {
	Title          string          `json:"title" validate:"required"`
	Category       string          `json:"category" validate:"required"`
	Rate           decimal.Decimal `json:"rate" validate:"required"`
	UnitType       string          `json:"unit_type" validate:"required"`
	InventoryItems []string        `json:"inventory_items,omitempty"`
	Images         []string        `json:"images,omitempty" validate:"max=5"`
	ContactHandle  string          `json:"contact_handle" validate:"required"`
}

// UpdateListingRequest carries the mutable listing fields. Nil means unchanged.
type UpdateListingRequest struct {
	Title          *string          `json:"title,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Rate           *decimal.Decimal `json:"rate,omitempty"`
	UnitType       *string          `json:"unit_type,omitempty"`
	InventoryItems *[]string        `json:"inventory_items,omitempty"`
	Images         *[]string        `json:"images,omitempty"`
	ContactHandle  *string          `json:"contact_handle,omitempty"`
}

// ListingDTO is the read shape returned to controllers.
type ListingDTO struct {
	ID             uuid.UUID       `json:"id"`
	StorefrontID   uuid.UUID       `json:"storefront_id"`
	Title          string          `json:"title"`
	Category       string          `json:"category"`
	Rate           decimal.Decimal `json:"rate"`
	UnitType       string          `json:"unit_type"`
	InventoryItems []string        `json:"inventory_items"`
	Images         []string        `json:"images"`
	ContactHandle  string          `json:"contact_handle"`
	CreatedAt      time.Time       `json:"created_at"`
}

// StorefrontListingsDTO groups a storefront with its listings for browse responses.
type StorefrontListingsDTO struct {
	Storefront storefronts.StorefrontDTO `json:"storefront"`
	Listings   []ListingDTO              `json:"listings"`
}

// CreateListingDTO carries the validated fields persisted at publish time.
type CreateListingDTO struct {
	StorefrontID   uuid.UUID
	Title          string
	Category       string
	Rate           decimal.Decimal
	UnitType       string
	InventoryItems []string
	Images         []string
	ContactHandle  string
}

// ToDTO maps the model to its read shape.
func ToDTO(listing *models.Listing) ListingDTO {
	return ListingDTO{
		ID:             listing.ID,
		StorefrontID:   listing.StorefrontID,
		Title:          listing.Title,
		Category:       listing.Category,
		Rate:           listing.Rate,
		UnitType:       string(listing.UnitType),
		InventoryItems: listing.InventoryItems,
		Images:         listing.Images,
		ContactHandle:  listing.ContactHandle,
		CreatedAt:      listing.CreatedAt,
	}
}
