package groups

import (
	"time"

	"github.com/google/uuid"

	"github.com/galeria-midia/backend/internal/media"
	"github.com/galeria-midia/backend/pkg/db/models"
)

// GroupDTO exposes a media group in API responses.
type GroupDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	OwnerID   uuid.UUID        `json:"owner_id"`
	ShareCode string           `json:"share_code"`
	CreatedAt time.Time        `json:"created_at"`
	Media     []media.MediaDTO `json:"media,omitempty"`
}

// CreateGroupDTO holds creation-time data for a new group.
type CreateGroupDTO struct {
	Name    string
	OwnerID uuid.UUID
}

// FromModel maps the persisted group into a DTO.
func FromModel(m *models.Group) *GroupDTO {
	if m == nil {
		return nil
	}

	dto := &GroupDTO{
		ID:        m.ID,
		Name:      m.Name,
		OwnerID:   m.OwnerID,
		ShareCode: m.ShareCode,
		CreatedAt: m.CreatedAt,
	}

	if len(m.Media) > 0 {
		dto.Media = make([]media.MediaDTO, 0, len(m.Media))
		for i := range m.Media {
			dto.Media = append(dto.Media, *media.FromModel(&m.Media[i]))
		}
	}

	return dto
}
