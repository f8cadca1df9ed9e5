package storefronts

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
)

// Repository defines persistence operations for storefronts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dto CreateStorefrontDTO) (*models.Storefront, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Storefront, error)
	FindByOwnerPrincipal(ctx context.Context, ownerPrincipalID uuid.UUID) (*models.Storefront, error)
	Update(ctx context.Context, storefront *models.Storefront) error
	AddEarnings(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	ApplyReview(ctx context.Context, id uuid.UUID, rating int) error
	ListAll(ctx context.Context) ([]models.Storefront, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a storefront repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, dto CreateStorefrontDTO) (*models.Storefront, error) {
	storefront := &models.Storefront{
		ID:               uuid.New(),
		OwnerPrincipalID: dto.OwnerPrincipalID,
		DisplayName:      dto.DisplayName,
		EarningsTotal:    decimal.Zero,
		AdvancePercent:   10,
	}
	if err := r.db.WithContext(ctx).Create(storefront).Error; err != nil {
		return nil, err
	}
	return storefront, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Storefront, error) {
	var storefront models.Storefront
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&storefront).Error
	if err != nil {
		return nil, err
	}
	return &storefront, nil
}

// FindByOwnerPrincipal resolves a vendor's storefront through the unique
// owner index rather than scanning all vendors.
func (r *repository) FindByOwnerPrincipal(ctx context.Context, ownerPrincipalID uuid.UUID) (*models.Storefront, error) {
	var storefront models.Storefront
	err := r.db.WithContext(ctx).Where("owner_principal_id = ?", ownerPrincipalID).First(&storefront).Error
	if err != nil {
		return nil, err
	}
	return &storefront, nil
}

func (r *repository) Update(ctx context.Context, storefront *models.Storefront) error {
	return r.db.WithContext(ctx).Save(storefront).Error
}

// AddEarnings accumulates a completed booking's total into the earnings
// aggregate. Callers run it inside the same transaction as the status write.
func (r *repository) AddEarnings(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Storefront{}).
		Where("id = ?", id).
		Update("earnings_total", gorm.Expr("earnings_total + ?", amount)).Error
}

func (r *repository) ApplyReview(ctx context.Context, id uuid.UUID, rating int) error {
	return r.db.WithContext(ctx).
		Model(&models.Storefront{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating_count": gorm.Expr("rating_count + 1"),
			"rating_total": gorm.Expr("rating_total + ?", rating),
		}).Error
}

func (r *repository) ListAll(ctx context.Context) ([]models.Storefront, error) {
	var storefronts []models.Storefront
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&storefronts).Error
	if err != nil {
		return nil, err
	}
	return storefronts, nil
}
