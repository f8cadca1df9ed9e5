package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rohankarki/utsavhub-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	PrincipalID  uuid.UUID
	Role         enums.PrincipalRole
	StorefrontID *uuid.UUID
	JTI          string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	PrincipalID  uuid.UUID           `json:"principal_id"`
	Role         enums.PrincipalRole `json:"role"`
	StorefrontID *uuid.UUID          `json:"storefront_id,omitempty"`
	jwt.RegisteredClaims
}
