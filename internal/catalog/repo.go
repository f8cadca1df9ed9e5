package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
	dbtypes "github.com/rohankarki/utsavhub-backend/pkg/db/types"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
)

// Repository defines persistence operations for listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dto CreateListingDTO) (*models.Listing, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByStorefront(ctx context.Context, storefrontID uuid.UUID) ([]models.Listing, error)
	ListByCategory(ctx context.Context, category string) ([]models.Listing, error)
	ListAll(ctx context.Context) ([]models.Listing, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a listing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, dto CreateListingDTO) (*models.Listing, error) {
	listing := &models.Listing{
		ID:             uuid.New(),
		StorefrontID:   dto.StorefrontID,
		Title:          dto.Title,
		Category:       dto.Category,
		Rate:           dto.Rate,
		UnitType:       enums.UnitType(dto.UnitType),
		InventoryItems: dbtypes.StringList(dto.InventoryItems),
		Images:         dbtypes.StringList(dto.Images),
		ContactHandle:  dto.ContactHandle,
	}
	if listing.InventoryItems == nil {
		listing.InventoryItems = dbtypes.StringList{}
	}
	if listing.Images == nil {
		listing.Images = dbtypes.StringList{}
	}
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *repository) Update(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

// Delete removes the listing row. Bookings keep their own copy of the
// amount so they survive the removal.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Listing{}).Error
}

func (r *repository) ListByStorefront(ctx context.Context, storefrontID uuid.UUID) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.WithContext(ctx).
		Where("storefront_id = ?", storefrontID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *repository) ListByCategory(ctx context.Context, category string) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
