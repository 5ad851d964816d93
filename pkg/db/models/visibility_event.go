package models

import (
	"time"

	"github.com/google/uuid"
)

// VisibilityEvent records how long one media item was shown during a session.
// Rows are append-only; they only disappear through the group/media cascade.
type VisibilityEvent struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID         string    `gorm:"column:session_id;not null;index"`
	MediaID           uuid.UUID `gorm:"column:media_id;type:uuid;not null;index"`
	VisibleDurationMs int64     `gorm:"column:visible_duration_ms;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (VisibilityEvent) TableName() string { return "analytics_events" }
