package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/pkg/config"
	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
)

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// StoredMedia is the read shape for a fetched blob.
type StoredMedia struct {
	Ref         string
	ContentType string
	Data        []byte
}

// Service stores and serves uploaded images for listings and advance proofs.
type Service interface {
	Store(ctx context.Context, uploadedBy uuid.UUID, payload []byte, contentType string) (string, error)
	Get(ctx context.Context, ref string) (*StoredMedia, error)
	Exists(ctx context.Context, ref string) (bool, error)
}

type service struct {
	repo Repository
	cfg  config.MediaConfig
}

// NewService constructs a media service.
func NewService(repo Repository, cfg config.MediaConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

// Store validates and persists an upload, returning the opaque reference
// callers embed in listings and bookings.
func (s *service) Store(ctx context.Context, uploadedBy uuid.UUID, payload []byte, contentType string) (string, error) {
	if len(payload) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "empty upload")
	}
	if int64(len(payload)) > s.cfg.MaxUploadBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadBytes))
	}
	if !allowedContentTypes[contentType] {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unsupported content type %q", contentType))
	}

	record := &models.Media{
		ID:          uuid.New(),
		Ref:         "media-" + uuid.NewString(),
		ContentType: contentType,
		SizeBytes:   int64(len(payload)),
		Data:        payload,
		UploadedBy:  uploadedBy,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store media")
	}
	return record.Ref, nil
}

func (s *service) Get(ctx context.Context, ref string) (*StoredMedia, error) {
	record, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media")
	}
	return &StoredMedia{
		Ref:         record.Ref,
		ContentType: record.ContentType,
		Data:        record.Data,
	}, nil
}

func (s *service) Exists(ctx context.Context, ref string) (bool, error) {
	return s.repo.ExistsByRef(ctx, ref)
}
