package media

import (
	"context"

	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
)

// Repository defines persistence operations for media blobs.
type Repository interface {
	Create(ctx context.Context, media *models.Media) error
	FindByRef(ctx context.Context, ref string) (*models.Media, error)
	ExistsByRef(ctx context.Context, ref string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a media repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *repository) FindByRef(ctx context.Context, ref string) (*models.Media, error) {
	var record models.Media
	err := r.db.WithContext(ctx).Where("ref = ?", ref).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) ExistsByRef(ctx context.Context, ref string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("ref = ?", ref).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
