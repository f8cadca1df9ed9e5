package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/rohankarki/utsavhub-backend/pkg/db/types"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
)

// MaxListingImages caps the stored image references per listing.
const MaxListingImages = 5

// Listing represents a published service offering owned by a storefront.
type Listing struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StorefrontID   uuid.UUID          `gorm:"column:storefront_id;type:uuid;not null;index"`
	Title          string             `gorm:"column:title;not null"`
	Category       string             `gorm:"column:category;not null;index"`
	Rate           decimal.Decimal    `gorm:"column:rate;type:numeric(12,2);not null"`
	UnitType       enums.UnitType     `gorm:"column:unit_type;type:text;not null"`
	InventoryItems dbtypes.StringList `gorm:"column:inventory_items;type:text;not null;default:'[]'"`
	Images         dbtypes.StringList `gorm:"column:images;type:text;not null;default:'[]'"`
	ContactHandle  string             `gorm:"column:contact_handle;not null"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
