package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is an owner-scoped collection of media items published under a single
// share code. The owner never changes after creation.
type Group struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	ShareCode string    `gorm:"column:share_code;size:8;not null;unique"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Media []Media `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

func (Group) TableName() string { return "groups" }
