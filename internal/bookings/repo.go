package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
)

// Repository defines persistence operations for bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dto CreateBookingDTO) (*models.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	// UpdateStatusCAS performs a compare-and-set status write: the row is
	// updated only if it still holds the expected status. Returns false when
	// the row was not in the expected status.
	UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus, extra map[string]any) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a booking repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, dto CreateBookingDTO) (*models.Booking, error) {
	booking := &models.Booking{
		ID:           uuid.New(),
		CustomerID:   dto.CustomerID,
		StorefrontID: dto.StorefrontID,
		ListingID:    dto.ListingID,
		StartDate:    dto.StartDate,
		EndDate:      dto.EndDate,
		Address:      dto.Address,
		TotalAmount:  dto.TotalAmount,
		Status:       enums.BookingStatusPending,
	}
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{"status": to}
	for column, value := range extra {
		updates[column] = value
	}
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
