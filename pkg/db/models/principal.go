package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rohankarki/utsavhub-backend/pkg/enums"
)

// Principal represents the canonical identity entity, customer or vendor.
// Role is fixed at registration; there is no upgrade flow.
type Principal struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DisplayName  string              `gorm:"column:display_name;not null"`
	Email        *string             `gorm:"column:email;uniqueIndex"`
	Mobile       string              `gorm:"column:mobile;not null;uniqueIndex"`
	PasswordHash string              `gorm:"column:password_hash;not null"`
	Role         enums.PrincipalRole `gorm:"column:role;type:text;not null"`
	LastLoginAt  *time.Time          `gorm:"column:last_login_at"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
