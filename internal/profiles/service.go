package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galeria-midia/backend/pkg/db/models"
	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
)

type profileRepository interface {
	Upsert(ctx context.Context, profile *models.Profile) error
	UpdateName(ctx context.Context, id uuid.UUID, fullName string) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// Service exposes profile operations.
type Service interface {
	Sync(ctx context.Context, userID uuid.UUID, fullName string) (*ProfileDTO, error)
	Update(ctx context.Context, userID uuid.UUID, fullName string) (*ProfileDTO, error)
	Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
}

type service struct {
	repo profileRepository
}

// NewService builds a profile service with the provided repository.
func NewService(repo profileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

// Sync upserts the profile row for an authenticated user. Called after login
// so the local mirror tracks the provider's account.
func (s *service) Sync(ctx context.Context, userID uuid.UUID, fullName string) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	profile := &models.Profile{ID: userID, FullName: fullName}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync profile")
	}
	return FromModel(profile), nil
}

// Update renames an existing profile. Unlike Sync it refuses to create the
// row, so a PUT before the first login surfaces as not found.
func (s *service) Update(ctx context.Context, userID uuid.UUID, fullName string) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	rows, err := s.repo.UpdateName(ctx, userID, fullName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return s.Get(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return FromModel(profile), nil
}
