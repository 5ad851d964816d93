package media

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galeria-midia/backend/pkg/db/models"
)

// Repository handles media persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to media operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new media row.
func (r *Repository) Create(ctx context.Context, m *models.Media) error {
	if m == nil {
		return fmt.Errorf("media is required")
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByID loads a media row by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var m models.Media
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByGroup returns all media in the group, oldest first to keep the
// slideshow order stable.
func (r *Repository) FindByGroup(ctx context.Context, groupID uuid.UUID) ([]models.Media, error) {
	var list []models.Media
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes the media row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Media{}, "id = ?", id).Error
}

// DeleteByStorageKey removes the row matching an object-store key. Returns
// the number of rows removed so the cleanup worker can tell a no-op apart.
func (r *Repository) DeleteByStorageKey(ctx context.Context, storageKey string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Media{}, "storage_key = ?", storageKey)
	return res.RowsAffected, res.Error
}
