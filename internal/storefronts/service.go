package storefronts

import (
	"errors"
	"fmt"
	"strings"

	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
)

// Service exposes storefront operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*StorefrontDTO, error)
	GetByOwner(ctx context.Context, ownerPrincipalID uuid.UUID) (*StorefrontDTO, error)
	Update(ctx context.Context, requesterPrincipalID uuid.UUID, input UpdateStorefrontInput) (*StorefrontDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a storefront service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("storefront repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StorefrontDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storefront id required")
	}
	storefront, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "storefront not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load storefront")
	}
	return ToDTO(storefront), nil
}

func (s *service) GetByOwner(ctx context.Context, ownerPrincipalID uuid.UUID) (*StorefrontDTO, error) {
	if ownerPrincipalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "principal identity missing")
	}
	storefront, err := s.repo.FindByOwnerPrincipal(ctx, ownerPrincipalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "storefront not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load storefront")
	}
	return ToDTO(storefront), nil
}

// Update mutates the requester's own storefront; ownership is implicit in the
// owner-principal lookup.
func (s *service) Update(ctx context.Context, requesterPrincipalID uuid.UUID, input UpdateStorefrontInput) (*StorefrontDTO, error) {
	if requesterPrincipalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "principal identity missing")
	}

	storefront, err := s.repo.FindByOwnerPrincipal(ctx, requesterPrincipalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "storefront not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load storefront")
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name cannot be empty")
		}
		storefront.DisplayName = name
	}
	if input.PaymentHandle != nil {
		handle := strings.TrimSpace(*input.PaymentHandle)
		storefront.PaymentHandle = &handle
	}
	if input.AdvancePercent != nil {
		if *input.AdvancePercent < 0 || *input.AdvancePercent > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "advance percent must be between 0 and 100")
		}
		storefront.AdvancePercent = *input.AdvancePercent
	}

	if err := s.repo.Update(ctx, storefront); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update storefront")
	}
	return ToDTO(storefront), nil
}
