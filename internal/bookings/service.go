package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/internal/storefronts"
	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
	"github.com/rohankarki/utsavhub-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type listingReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

// Service drives the booking lifecycle.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, input CreateBookingInput) (*BookingDTO, error)
	Transition(ctx context.Context, bookingID uuid.UUID, actor Actor, input TransitionInput) (*BookingDTO, error)
	GetByID(ctx context.Context, bookingID uuid.UUID, actor Actor) (*BookingDTO, error)
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo        Repository
	Listings    listingReader
	Storefronts storefronts.Repository
	Tx          txRunner
	Logger      *logger.Logger
}

type service struct {
	repo        Repository
	listings    listingReader
	storefronts storefronts.Repository
	tx          txRunner
	log         *logger.Logger
}

// NewService constructs a booking service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if params.Listings == nil {
		return nil, fmt.Errorf("listing reader required")
	}
	if params.Storefronts == nil {
		return nil, fmt.Errorf("storefront repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        params.Repo,
		listings:    params.Listings,
		storefronts: params.Storefronts,
		tx:          params.Tx,
		log:         params.Logger,
	}, nil
}

// Create opens a pending booking against a listing. The total is priced at
// creation and the storefront id copied from the listing, so the booking is
// self-contained if the listing is later removed.
func (s *service) Create(ctx context.Context, customerID uuid.UUID, input CreateBookingInput) (*BookingDTO, error) {
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start and end dates are required")
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must not precede start date")
	}

	listing, err := s.listings.FindByID(ctx, input.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}

	booking, err := s.repo.Create(ctx, CreateBookingDTO{
		CustomerID:   customerID,
		StorefrontID: listing.StorefrontID,
		ListingID:    listing.ID,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Address:      strings.TrimSpace(input.Address),
		TotalAmount:  ComputeTotal(listing.Rate, input.StartDate, input.EndDate),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
	}
	result := ToDTO(booking)
	return &result, nil
}

// Transition moves a booking along the lifecycle. The status write is a
// compare-and-set against the status the caller observed, and the side
// effects of terminal-bound transitions (earnings on completed, rating
// aggregates on reviewed) ride the same transaction, so a lost race can
// neither skip a state nor double-apply an effect.
func (s *service) Transition(ctx context.Context, bookingID uuid.UUID, actor Actor, input TransitionInput) (*BookingDTO, error) {
	target := enums.BookingStatus(strings.TrimSpace(input.Target))

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}

	requester, err := s.classifyActor(ctx, booking, actor)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(booking.Status, target, requester); err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeForbidden {
			s.log.Warn(s.log.WithFields(ctx, map[string]any{
				"booking_id": bookingID.String(),
				"from":       booking.Status.String(),
				"to":         target.String(),
			}), "transition denied")
		}
		return nil, err
	}

	extra, err := transitionPayload(target, input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		storefrontRepo := s.storefronts.WithTx(tx)

		applied, err := repo.UpdateStatusCAS(ctx, booking.ID, booking.Status, target, extra)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
		}
		if !applied {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking status changed concurrently")
		}

		switch target {
		case enums.BookingStatusCompleted:
			if err := storefrontRepo.AddEarnings(ctx, booking.StorefrontID, booking.TotalAmount); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accumulate earnings")
			}
		case enums.BookingStatusReviewed:
			if err := storefrontRepo.ApplyReview(ctx, booking.StorefrontID, *input.Rating); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply review aggregate")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, booking.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload booking")
	}
	result := ToDTO(updated)
	return &result, nil
}

// GetByID returns the booking if the actor is a party to it.
func (s *service) GetByID(ctx context.Context, bookingID uuid.UUID, actor Actor) (*BookingDTO, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if _, err := s.classifyActor(ctx, booking, actor); err != nil {
		return nil, err
	}
	result := ToDTO(booking)
	return &result, nil
}

// classifyActor resolves which side of the booking the actor stands on.
// Vendors match through their storefront, customers through their principal
// id. Anyone else is not a party to the booking.
func (s *service) classifyActor(ctx context.Context, booking *models.Booking, actor Actor) (party, error) {
	switch actor.Role {
	case enums.PrincipalRoleVendor:
		if actor.StorefrontID != nil && *actor.StorefrontID == booking.StorefrontID {
			return partyVendor, nil
		}
	case enums.PrincipalRoleCustomer:
		if actor.PrincipalID == booking.CustomerID {
			return partyCustomer, nil
		}
	}
	s.log.Warn(s.log.WithFields(ctx, map[string]any{
		"booking_id": booking.ID.String(),
	}), "booking access denied")
	return 0, pkgerrors.New(pkgerrors.CodeForbidden, "not a party to this booking")
}

// transitionPayload validates the payload a target status requires and maps
// it onto the columns written alongside the status.
func transitionPayload(target enums.BookingStatus, input TransitionInput) (map[string]any, error) {
	switch target {
	case enums.BookingStatusAdvancePaid:
		if input.ProofRef == nil || strings.TrimSpace(*input.ProofRef) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "advance payment proof reference is required")
		}
		return map[string]any{"advance_proof_ref": strings.TrimSpace(*input.ProofRef)}, nil
	case enums.BookingStatusReviewed:
		if input.Rating == nil || *input.Rating < 1 || *input.Rating > 5 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
		}
		if input.Comment == nil || strings.TrimSpace(*input.Comment) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "review comment is required")
		}
		return map[string]any{
			"review_rating":  *input.Rating,
			"review_comment": strings.TrimSpace(*input.Comment),
		}, nil
	}
	return nil, nil
}
