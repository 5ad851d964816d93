package media

import (
	"time"

	"github.com/google/uuid"

	"github.com/galeria-midia/backend/pkg/db/models"
)

// MediaDTO exposes one uploaded file in API responses. URL is filled in by
// whoever knows the storage layout; persistence only keeps the key.
type MediaDTO struct {
	ID         uuid.UUID `json:"id"`
	GroupID    uuid.UUID `json:"group_id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	StorageKey string    `json:"storage_key"`
	SizeBytes  int64     `json:"size_bytes"`
	URL        string    `json:"url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ResolveURLs fills the public URL for each DTO using the provided resolver.
func ResolveURLs(dtos []MediaDTO, resolve func(storageKey string) string) {
	if resolve == nil {
		return
	}
	for i := range dtos {
		if dtos[i].StorageKey != "" {
			dtos[i].URL = resolve(dtos[i].StorageKey)
		}
	}
}

// FromModel maps the persisted media row into a DTO.
func FromModel(m *models.Media) *MediaDTO {
	if m == nil {
		return nil
	}
	return &MediaDTO{
		ID:         m.ID,
		GroupID:    m.GroupID,
		FileName:   m.FileName,
		FileType:   m.FileType,
		StorageKey: m.StorageKey,
		SizeBytes:  m.SizeBytes,
		CreatedAt:  m.CreatedAt,
	}
}
