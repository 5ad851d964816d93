package groups

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galeria-midia/backend/pkg/db/models"
)

// Repository handles group persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to group operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new group row.
func (r *Repository) Create(ctx context.Context, group *models.Group) error {
	if group == nil {
		return fmt.Errorf("group is required")
	}
	return r.db.WithContext(ctx).Create(group).Error
}

// FindByID loads a group by its UUID, media included.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByShareCode loads a group through its public share code.
func (r *Repository) FindByShareCode(ctx context.Context, shareCode string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("share_code = ?", shareCode).
		First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByOwner returns all groups owned by the provided user, newest first.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Group, error) {
	var list []models.Group
	if err := r.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes the group row. Media and analytics rows go with it through
// the foreign key cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Group{}, "id = ?", id).Error
}
