package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/rohankarki/utsavhub-backend/api/middleware"
	"github.com/rohankarki/utsavhub-backend/internal/bookings"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
)

// principalIDFromContext reads the authenticated principal id seeded by the
// auth middleware.
func principalIDFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.PrincipalIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal context")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid principal context")
	}
	return id, nil
}

func storefrontIDFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.StorefrontIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "storefront context required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid storefront context")
	}
	return id, nil
}

// actorFromContext assembles the booking actor from the authenticated
// session. The actor is always passed explicitly into services.
func actorFromContext(ctx context.Context) (bookings.Actor, error) {
	principalID, err := principalIDFromContext(ctx)
	if err != nil {
		return bookings.Actor{}, err
	}

	role, err := enums.ParsePrincipalRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return bookings.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing role context")
	}

	actor := bookings.Actor{PrincipalID: principalID, Role: role}
	if raw := middleware.StorefrontIDFromContext(ctx); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return bookings.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid storefront context")
		}
		actor.StorefrontID = &id
	}
	return actor, nil
}
