package models

import (
	"time"

	"github.com/google/uuid"
)

// Media is a stored image payload referenced by listings and advance proofs.
// The marketplace only records bytes handed to it; capture and resizing happen
// upstream.
type Media struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Ref         string    `gorm:"column:ref;not null;uniqueIndex"`
	ContentType string    `gorm:"column:content_type;not null"`
	SizeBytes   int64     `gorm:"column:size_bytes;not null"`
	Data        []byte    `gorm:"column:data;not null"`
	UploadedBy  uuid.UUID `gorm:"column:uploaded_by;type:uuid;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
