package models

import (
	"time"

	"github.com/google/uuid"
)

// Media captures metadata for one uploaded file. FileName keeps the name the
// uploader chose; StorageKey is the sanitized object-store path.
type Media struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID    uuid.UUID `gorm:"column:group_id;type:uuid;not null;index"`
	FileName   string    `gorm:"column:file_name;not null"`
	FileType   string    `gorm:"column:file_type;not null"`
	StorageKey string    `gorm:"column:storage_key;not null;unique"`
	SizeBytes  int64     `gorm:"column:size_bytes;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Media) TableName() string { return "media" }
