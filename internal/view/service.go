package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galeria-midia/backend/internal/media"
	"github.com/galeria-midia/backend/pkg/db/models"
	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
)

type groupLookup interface {
	FindByShareCode(ctx context.Context, shareCode string) (*models.Group, error)
}

// GroupViewDTO is the public slideshow payload. It carries no owner data.
type GroupViewDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	ShareCode string           `json:"share_code"`
	Media     []media.MediaDTO `json:"media"`
}

// Service resolves share codes for the unauthenticated TV view.
type Service interface {
	ByShareCode(ctx context.Context, shareCode string) (*GroupViewDTO, error)
}

type service struct {
	groups   groupLookup
	mediaURL func(storageKey string) string
}

// NewService builds the public view service. mediaURL turns a storage key
// into a browser-loadable URL.
func NewService(groups groupLookup, mediaURL func(storageKey string) string) (Service, error) {
	if groups == nil {
		return nil, fmt.Errorf("group lookup required")
	}
	return &service{groups: groups, mediaURL: mediaURL}, nil
}

func (s *service) ByShareCode(ctx context.Context, shareCode string) (*GroupViewDTO, error) {
	if len(shareCode) != 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "share code must be 8 characters")
	}

	group, err := s.groups.FindByShareCode(ctx, shareCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve share code")
	}

	dto := &GroupViewDTO{
		ID:        group.ID,
		Name:      group.Name,
		ShareCode: group.ShareCode,
		Media:     make([]media.MediaDTO, 0, len(group.Media)),
	}
	for i := range group.Media {
		dto.Media = append(dto.Media, *media.FromModel(&group.Media[i]))
	}
	media.ResolveURLs(dto.Media, s.mediaURL)

	return dto, nil
}
