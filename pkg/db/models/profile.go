package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile mirrors a user of the hosted identity provider. The id is the
// provider's subject claim, so rows are upserted rather than created.
type Profile struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FullName  string    `gorm:"column:full_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string { return "profiles" }
