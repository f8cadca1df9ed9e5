package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
	"github.com/rohankarki/utsavhub-backend/pkg/pagination"
)

type storefrontReader interface {
	FindByOwnerPrincipal(ctx context.Context, ownerPrincipalID uuid.UUID) (*models.Storefront, error)
}

// Service serves the read side of bookings for dashboards.
type Service interface {
	BookingsForPrincipal(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole, params pagination.Params) (*Page, error)
}

type service struct {
	repo        Repository
	storefronts storefrontReader
}

// NewService constructs a booking view service.
func NewService(repo Repository, storefrontRepo storefrontReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("view repository required")
	}
	if storefrontRepo == nil {
		return nil, fmt.Errorf("storefront reader required")
	}
	return &service{repo: repo, storefronts: storefrontRepo}, nil
}

// BookingsForPrincipal lists bookings newest first for whichever side of the
// marketplace the principal stands on. Customers see their own bookings,
// vendors the bookings of their storefront.
func (s *service) BookingsForPrincipal(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	fetch := pagination.LimitWithBuffer(params.Limit)

	var items []BookingView
	switch role {
	case enums.PrincipalRoleCustomer:
		items, err = s.repo.ListForCustomer(ctx, principalID, fetch, cursor)
	case enums.PrincipalRoleVendor:
		storefront, sfErr := s.storefronts.FindByOwnerPrincipal(ctx, principalID)
		if sfErr != nil {
			if errors.Is(sfErr, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "storefront not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, sfErr, "load storefront")
		}
		items, err = s.repo.ListForStorefront(ctx, storefront.ID, fetch, cursor)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown principal role")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}

	page := &Page{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}
