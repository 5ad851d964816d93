package groups

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galeria-midia/backend/pkg/db"
	"github.com/galeria-midia/backend/pkg/db/models"
	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
	"github.com/galeria-midia/backend/pkg/logger"
)

// shareCodeAttempts bounds regeneration when a fresh code collides.
const shareCodeAttempts = 5

type groupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type objectStore interface {
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service exposes group operations.
type Service interface {
	Create(ctx context.Context, input CreateGroupDTO) (*GroupDTO, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]GroupDTO, error)
	GetByID(ctx context.Context, ownerID, groupID uuid.UUID) (*GroupDTO, error)
	Delete(ctx context.Context, ownerID, groupID uuid.UUID) error
}

type service struct {
	repo    groupRepository
	storage objectStore
	logg    *logger.Logger
}

// NewService builds a group service with the provided repository and object store.
func NewService(repo groupRepository, storage objectStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("group repository required")
	}
	return &service{repo: repo, storage: storage, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateGroupDTO) (*GroupDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group name is required")
	}
	if input.OwnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}

	for attempt := 0; attempt < shareCodeAttempts; attempt++ {
		code, err := NewShareCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate share code")
		}

		group := &models.Group{
			Name:      input.Name,
			OwnerID:   input.OwnerID,
			ShareCode: code,
		}

		err = s.repo.Create(ctx, group)
		if err == nil {
			return FromModel(group), nil
		}
		if db.IsUniqueViolation(err) {
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group")
	}

	return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a share code")
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]GroupDTO, error) {
	list, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list groups")
	}

	dtos := make([]GroupDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, *FromModel(&list[i]))
	}
	return dtos, nil
}

func (s *service) GetByID(ctx context.Context, ownerID, groupID uuid.UUID) (*GroupDTO, error) {
	group, err := s.ownedGroup(ctx, ownerID, groupID)
	if err != nil {
		return nil, err
	}
	return FromModel(group), nil
}

// Delete removes the group and best-effort removes its objects from storage.
// A storage failure never blocks the database delete; the cleanup worker
// reconciles strays later.
func (s *service) Delete(ctx context.Context, ownerID, groupID uuid.UUID) error {
	group, err := s.ownedGroup(ctx, ownerID, groupID)
	if err != nil {
		return err
	}

	if s.storage != nil {
		for i := range group.Media {
			key := group.Media[i].StorageKey
			if key == "" {
				continue
			}
			if err := s.storage.DeleteObject(ctx, "", key); err != nil && s.logg != nil {
				logCtx := s.logg.WithFields(ctx, map[string]any{
					"group_id":    groupID.String(),
					"storage_key": key,
				})
				s.logg.Warn(logCtx, "group.delete.storage_object_failed")
			}
		}
	}

	if err := s.repo.Delete(ctx, groupID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete group")
	}
	return nil
}

func (s *service) ownedGroup(ctx context.Context, ownerID, groupID uuid.UUID) (*models.Group, error) {
	group, err := s.repo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group")
	}
	if group.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "group belongs to another user")
	}
	return group, nil
}
