package principals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
)

// Repository defines persistence operations for principals.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dto CreatePrincipalDTO) (*models.Principal, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Principal, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.Principal, error)
	FindByEmail(ctx context.Context, email string) (*models.Principal, error)
	FindByMobile(ctx context.Context, mobile string) (*models.Principal, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a principal repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, dto CreatePrincipalDTO) (*models.Principal, error) {
	principal := &models.Principal{
		ID:           uuid.New(),
		DisplayName:  dto.DisplayName,
		Email:        dto.Email,
		Mobile:       dto.Mobile,
		PasswordHash: dto.PasswordHash,
		Role:         dto.Role,
	}
	if err := r.db.WithContext(ctx).Create(principal).Error; err != nil {
		return nil, err
	}
	return principal, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Principal, error) {
	var principal models.Principal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&principal).Error
	if err != nil {
		return nil, err
	}
	return &principal, nil
}

// FindByIdentifier matches either contact handle so customers can sign in
// with whichever they registered.
func (r *repository) FindByIdentifier(ctx context.Context, identifier string) (*models.Principal, error) {
	var principal models.Principal
	err := r.db.WithContext(ctx).
		Where("email = ? OR mobile = ?", identifier, identifier).
		First(&principal).Error
	if err != nil {
		return nil, err
	}
	return &principal, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Principal, error) {
	var principal models.Principal
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&principal).Error
	if err != nil {
		return nil, err
	}
	return &principal, nil
}

func (r *repository) FindByMobile(ctx context.Context, mobile string) (*models.Principal, error) {
	var principal models.Principal
	err := r.db.WithContext(ctx).Where("mobile = ?", mobile).First(&principal).Error
	if err != nil {
		return nil, err
	}
	return &principal, nil
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Principal{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
