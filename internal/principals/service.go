package principals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/internal/storefronts"
	pkgauth "github.com/rohankarki/utsavhub-backend/pkg/auth"
	"github.com/rohankarki/utsavhub-backend/pkg/auth/session"
	"github.com/rohankarki/utsavhub-backend/pkg/config"
	"github.com/rohankarki/utsavhub-backend/pkg/db"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
	"github.com/rohankarki/utsavhub-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

// Service handles registration and authentication of principals.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*PrincipalDTO, error)
	Authenticate(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo            Repository
	StorefrontsRepo storefronts.Repository
	Tx              txRunner
	Sessions        sessionManager
	JWTConfig       config.JWTConfig
	PasswordConfig  config.PasswordConfig
}

type service struct {
	repo        Repository
	storefronts storefronts.Repository
	tx          txRunner
	sessions    sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// NewService constructs a principal service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("principal repository required")
	}
	if params.StorefrontsRepo == nil {
		return nil, fmt.Errorf("storefront repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		repo:        params.Repo,
		storefronts: params.StorefrontsRepo,
		tx:          params.Tx,
		sessions:    params.Sessions,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates a principal and, for vendors, the paired storefront in the
// same transaction. Duplicate contact handles fail with a conflict.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*PrincipalDTO, error) {
	role, err := enums.ParsePrincipalRole(strings.TrimSpace(req.Role))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid principal role")
	}

	mobile := strings.TrimSpace(req.Mobile)
	if mobile == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mobile is required")
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}

	var email *string
	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		if normalized != "" {
			email = &normalized
		}
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *PrincipalDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		storefrontRepo := s.storefronts.WithTx(tx)

		if email != nil {
			if _, err := repo.FindByEmail(ctx, *email); err == nil {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
			}
		}
		if _, err := repo.FindByMobile(ctx, mobile); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "mobile already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check mobile")
		}

		principal, err := repo.Create(ctx, CreatePrincipalDTO{
			DisplayName:  displayName,
			Email:        email,
			Mobile:       mobile,
			PasswordHash: passwordHash,
			Role:         role,
		})
		if err != nil {
			// The duplicate checks above race with concurrent registrations;
			// the unique indexes are the authority.
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email or mobile already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create principal")
		}

		if role == enums.PrincipalRoleVendor {
			if _, err := storefrontRepo.Create(ctx, storefronts.CreateStorefrontDTO{
				OwnerPrincipalID: principal.ID,
				DisplayName:      defaultStorefrontName(displayName),
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create storefront")
			}
		}

		dto := ToDTO(principal)
		created = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Authenticate verifies credentials and issues an access/refresh token pair.
func (s *service) Authenticate(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	principal, err := s.repo.FindByIdentifier(ctx, strings.ToLower(identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load principal")
	}

	ok, err := security.VerifyPassword(req.Password, principal.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	var storefrontID *uuid.UUID
	if principal.Role == enums.PrincipalRoleVendor {
		storefront, err := s.storefronts.FindByOwnerPrincipal(ctx, principal.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load storefront")
		}
		storefrontID = &storefront.ID
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		PrincipalID:  principal.ID,
		Role:         principal.Role,
		StorefrontID: storefrontID,
		JTI:          accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	if err := s.repo.UpdateLastLogin(ctx, principal.ID, time.Now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}

	return &LoginResponse{
		Principal:    ToDTO(principal),
		StorefrontID: storefrontID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func defaultStorefrontName(displayName string) string {
	return displayName + " Storefront"
}
