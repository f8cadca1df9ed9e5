package views

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/pkg/enums"
	"github.com/rohankarki/utsavhub-backend/pkg/pagination"
)

// Repository reads the booking projection. It never writes.
type Repository interface {
	ListForCustomer(ctx context.Context, customerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]BookingView, error)
	ListForStorefront(ctx context.Context, storefrontID uuid.UUID, limit int, cursor *pagination.Cursor) ([]BookingView, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a booking view repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// bookingRow is the flat join result. Listing columns are pointers because
// the join is LEFT: a removed listing leaves them NULL while the booking row
// survives.
type bookingRow struct {
	ID              uuid.UUID           `gorm:"column:id"`
	Status          enums.BookingStatus `gorm:"column:status"`
	StartDate       time.Time           `gorm:"column:start_date"`
	EndDate         time.Time           `gorm:"column:end_date"`
	Address         string              `gorm:"column:address"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount"`
	AdvanceProofRef *string             `gorm:"column:advance_proof_ref"`
	ReviewRating    *int                `gorm:"column:review_rating"`
	ReviewComment   *string             `gorm:"column:review_comment"`
	CreatedAt       time.Time           `gorm:"column:created_at"`

	ListingRowID    *uuid.UUID       `gorm:"column:listing_row_id"`
	ListingTitle    *string          `gorm:"column:listing_title"`
	ListingCategory *string          `gorm:"column:listing_category"`
	ListingRate     *decimal.Decimal `gorm:"column:listing_rate"`
	ListingUnitType *string          `gorm:"column:listing_unit_type"`

	StorefrontID   uuid.UUID `gorm:"column:storefront_id"`
	StorefrontName string    `gorm:"column:storefront_name"`

	CustomerID     uuid.UUID `gorm:"column:customer_id"`
	CustomerName   string    `gorm:"column:customer_name"`
	CustomerMobile string    `gorm:"column:customer_mobile"`
}

const bookingViewColumns = `
	bookings.id,
	bookings.status,
	bookings.start_date,
	bookings.end_date,
	bookings.address,
	bookings.total_amount,
	bookings.advance_proof_ref,
	bookings.review_rating,
	bookings.review_comment,
	bookings.created_at,
	bookings.storefront_id,
	bookings.customer_id,
	listings.id AS listing_row_id,
	listings.title AS listing_title,
	listings.category AS listing_category,
	listings.rate AS listing_rate,
	listings.unit_type AS listing_unit_type,
	storefronts.display_name AS storefront_name,
	principals.display_name AS customer_name,
	principals.mobile AS customer_mobile`

func (r *repository) ListForCustomer(ctx context.Context, customerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]BookingView, error) {
	return r.list(ctx, "bookings.customer_id = ?", customerID, limit, cursor)
}

func (r *repository) ListForStorefront(ctx context.Context, storefrontID uuid.UUID, limit int, cursor *pagination.Cursor) ([]BookingView, error) {
	return r.list(ctx, "bookings.storefront_id = ?", storefrontID, limit, cursor)
}

func (r *repository) list(ctx context.Context, scope string, scopeArg uuid.UUID, limit int, cursor *pagination.Cursor) ([]BookingView, error) {
	query := r.db.WithContext(ctx).
		Table("bookings").
		Select(bookingViewColumns).
		Joins("LEFT JOIN listings ON listings.id = bookings.listing_id").
		Joins("LEFT JOIN storefronts ON storefronts.id = bookings.storefront_id").
		Joins("LEFT JOIN principals ON principals.id = bookings.customer_id").
		Where(scope, scopeArg).
		Order("bookings.created_at DESC, bookings.id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where(
			"bookings.created_at < ? OR (bookings.created_at = ? AND bookings.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []bookingRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]BookingView, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toView())
	}
	return result, nil
}

func (row *bookingRow) toView() BookingView {
	view := BookingView{
		ID:              row.ID,
		Status:          row.Status,
		StartDate:       row.StartDate,
		EndDate:         row.EndDate,
		Address:         row.Address,
		TotalAmount:     row.TotalAmount,
		AdvanceProofRef: row.AdvanceProofRef,
		ReviewRating:    row.ReviewRating,
		ReviewComment:   row.ReviewComment,
		CreatedAt:       row.CreatedAt,
		StorefrontID:    row.StorefrontID,
		StorefrontName:  row.StorefrontName,
		CustomerID:      row.CustomerID,
		CustomerName:    row.CustomerName,
		CustomerMobile:  row.CustomerMobile,
	}
	if row.ListingRowID != nil {
		summary := &ListingSummary{ID: *row.ListingRowID}
		if row.ListingTitle != nil {
			summary.Title = *row.ListingTitle
		}
		if row.ListingCategory != nil {
			summary.Category = *row.ListingCategory
		}
		if row.ListingRate != nil {
			summary.Rate = *row.ListingRate
		}
		if row.ListingUnitType != nil {
			summary.UnitType = *row.ListingUnitType
		}
		view.Listing = summary
	}
	return view
}
