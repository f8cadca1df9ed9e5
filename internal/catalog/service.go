package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/internal/storefronts"
	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
	dbtypes "github.com/rohankarki/utsavhub-backend/pkg/db/types"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
)

type storefrontReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Storefront, error)
	FindByOwnerPrincipal(ctx context.Context, ownerPrincipalID uuid.UUID) (*models.Storefront, error)
	ListAll(ctx context.Context) ([]models.Storefront, error)
}

type mediaChecker interface {
	Exists(ctx context.Context, ref string) (bool, error)
}

// Service manages the listing catalog.
type Service interface {
	Publish(ctx context.Context, storefrontID uuid.UUID, req PublishListingRequest) (*ListingDTO, error)
	Update(ctx context.Context, listingID, requesterPrincipalID uuid.UUID, req UpdateListingRequest) (*ListingDTO, error)
	Remove(ctx context.Context, listingID, requesterPrincipalID uuid.UUID) error
	GetByID(ctx context.Context, listingID uuid.UUID) (*ListingDTO, error)
	ListByStorefront(ctx context.Context, storefrontID uuid.UUID) ([]ListingDTO, error)
	Browse(ctx context.Context, category string) ([]StorefrontListingsDTO, error)
}

type service struct {
	repo        Repository
	storefronts storefrontReader
	media       mediaChecker
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(repo Repository, storefrontRepo storefrontReader, media mediaChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listing repository required")
	}
	if storefrontRepo == nil {
		return nil, fmt.Errorf("storefront reader required")
	}
	if media == nil {
		return nil, fmt.Errorf("media checker required")
	}
	return &service{repo: repo, storefronts: storefrontRepo, media: media}, nil
}

// Publish validates and stores a new listing under the storefront.
func (s *service) Publish(ctx context.Context, storefrontID uuid.UUID, req PublishListingRequest) (*ListingDTO, error) {
	dto := CreateListingDTO{
		StorefrontID:   storefrontID,
		Title:          strings.TrimSpace(req.Title),
		Category:       strings.TrimSpace(req.Category),
		Rate:           req.Rate,
		UnitType:       req.UnitType,
		InventoryItems: req.InventoryItems,
		Images:         req.Images,
		ContactHandle:  strings.TrimSpace(req.ContactHandle),
	}
	if err := s.validateFields(ctx, dto.Title, dto.Category, dto.Rate, dto.UnitType, dto.ContactHandle, dto.Images); err != nil {
		return nil, err
	}

	if _, err := s.storefronts.FindByID(ctx, storefrontID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "storefront not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load storefront")
	}

	listing, err := s.repo.Create(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
	}
	result := ToDTO(listing)
	return &result, nil
}

// Update mutates listing fields after an ownership check.
func (s *service) Update(ctx context.Context, listingID, requesterPrincipalID uuid.UUID, req UpdateListingRequest) (*ListingDTO, error) {
	listing, err := s.authorizedListing(ctx, listingID, requesterPrincipalID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		listing.Title = strings.TrimSpace(*req.Title)
	}
	if req.Category != nil {
		listing.Category = strings.TrimSpace(*req.Category)
	}
	if req.Rate != nil {
		listing.Rate = *req.Rate
	}
	if req.UnitType != nil {
		listing.UnitType = enums.UnitType(*req.UnitType)
	}
	if req.InventoryItems != nil {
		listing.InventoryItems = dbtypes.StringList(*req.InventoryItems)
	}
	if req.Images != nil {
		listing.Images = dbtypes.StringList(*req.Images)
	}
	if req.ContactHandle != nil {
		listing.ContactHandle = strings.TrimSpace(*req.ContactHandle)
	}

	if err := s.validateFields(ctx, listing.Title, listing.Category, listing.Rate, string(listing.UnitType), listing.ContactHandle, listing.Images); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update listing")
	}
	result := ToDTO(listing)
	return &result, nil
}

// Remove hard-deletes the listing. Bookings referencing it keep their own
// amount snapshot and survive.
func (s *service) Remove(ctx context.Context, listingID, requesterPrincipalID uuid.UUID) error {
	listing, err := s.authorizedListing(ctx, listingID, requesterPrincipalID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, listing.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, listingID uuid.UUID) (*ListingDTO, error) {
	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	result := ToDTO(listing)
	return &result, nil
}

func (s *service) ListByStorefront(ctx context.Context, storefrontID uuid.UUID) ([]ListingDTO, error) {
	listings, err := s.repo.ListByStorefront(ctx, storefrontID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}
	return toDTOs(listings), nil
}

// Browse returns listings grouped by storefront. With a category filter only
// storefronts holding at least one matching listing appear; without one every
// storefront appears, including those with no listings yet.
func (s *service) Browse(ctx context.Context, category string) ([]StorefrontListingsDTO, error) {
	category = strings.TrimSpace(category)

	if category == "" {
		all, err := s.storefronts.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list storefronts")
		}
		listings, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
		}
		grouped := groupByStorefront(listings)
		result := make([]StorefrontListingsDTO, 0, len(all))
		for i := range all {
			entry := StorefrontListingsDTO{
				Storefront: *storefronts.ToDTO(&all[i]),
				Listings:   []ListingDTO{},
			}
			if items, ok := grouped[all[i].ID]; ok {
				entry.Listings = items
			}
			result = append(result, entry)
		}
		return result, nil
	}

	listings, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings by category")
	}
	grouped := groupByStorefront(listings)
	result := make([]StorefrontListingsDTO, 0, len(grouped))
	seen := make(map[uuid.UUID]bool, len(grouped))
	for _, listing := range listings {
		if seen[listing.StorefrontID] {
			continue
		}
		seen[listing.StorefrontID] = true
		storefront, err := s.storefronts.FindByID(ctx, listing.StorefrontID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load storefront")
		}
		result = append(result, StorefrontListingsDTO{
			Storefront: *storefronts.ToDTO(storefront),
			Listings:   grouped[listing.StorefrontID],
		})
	}
	return result, nil
}

// authorizedListing loads the listing and verifies the requester owns the
// storefront it belongs to.
func (s *service) authorizedListing(ctx context.Context, listingID, requesterPrincipalID uuid.UUID) (*models.Listing, error) {
	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}

	storefront, err := s.storefronts.FindByOwnerPrincipal(ctx, requesterPrincipalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another storefront")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load storefront")
	}
	if storefront.ID != listing.StorefrontID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another storefront")
	}
	return listing, nil
}

func (s *service) validateFields(ctx context.Context, title, category string, rate decimal.Decimal, unitType, contactHandle string, images []string) error {
	if title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if category == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if !rate.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "rate must be positive")
	}
	if _, err := enums.ParseUnitType(unitType); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid unit type")
	}
	if contactHandle == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact handle is required")
	}
	if len(images) > models.MaxListingImages {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d images are allowed", models.MaxListingImages))
	}
	for _, ref := range images {
		ok, err := s.media.Exists(ctx, ref)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check media reference")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown media reference %q", ref))
		}
	}
	return nil
}

func toDTOs(listings []models.Listing) []ListingDTO {
	result := make([]ListingDTO, 0, len(listings))
	for i := range listings {
		result = append(result, ToDTO(&listings[i]))
	}
	return result
}

func groupByStorefront(listings []models.Listing) map[uuid.UUID][]ListingDTO {
	grouped := make(map[uuid.UUID][]ListingDTO)
	for i := range listings {
		grouped[listings[i].StorefrontID] = append(grouped[listings[i].StorefrontID], ToDTO(&listings[i]))
	}
	return grouped
}
