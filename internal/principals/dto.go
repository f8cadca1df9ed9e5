package principals

import (
	"time"

	"github.com/google/uuid"

	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
)

// RegisterRequest contains the payload required for onboarding a principal.
// Vendors get their storefront created in the same transaction.
type RegisterRequest struct {
	DisplayName string  `json:"display_name" validate:"required"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Mobile      string  `json:"mobile" validate:"required"`
	Password    string  `json:"password" validate:"required,min=8"`
	Role        string  `json:"role" validate:"required"`
}

// LoginRequest is the credential payload for authentication.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// PrincipalDTO is the read shape returned to controllers.
type PrincipalDTO struct {
	ID          uuid.UUID           `json:"id"`
	DisplayName string              `json:"display_name"`
	Email       *string             `json:"email,omitempty"`
	Mobile      string              `json:"mobile"`
	Role        enums.PrincipalRole `json:"role"`
	CreatedAt   time.Time           `json:"created_at"`
}

// LoginResponse carries the session principal plus the issued token pair.
type LoginResponse struct {
	Principal    PrincipalDTO `json:"principal"`
	StorefrontID *uuid.UUID   `json:"storefront_id,omitempty"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// CreatePrincipalDTO carries the fields persisted at registration.
type CreatePrincipalDTO struct {
	DisplayName  string
	Email        *string
	Mobile       string
	PasswordHash string
	Role         enums.PrincipalRole
}

// ToDTO maps the model to its read shape.
func ToDTO(principal *models.Principal) PrincipalDTO {
	return PrincipalDTO{
		ID:          principal.ID,
		DisplayName: principal.DisplayName,
		Email:       principal.Email,
		Mobile:      principal.Mobile,
		Role:        principal.Role,
		CreatedAt:   principal.CreatedAt,
	}
}
