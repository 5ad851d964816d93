package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsSession is one playback viewing instance on the public TV view.
// SessionID is the client-generated token; it is unique so a colliding client
// token cannot conflate two sessions. Active iff EndTime is null.
type AnalyticsSession struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID string     `gorm:"column:session_id;not null;unique"`
	GroupID   uuid.UUID  `gorm:"column:group_id;type:uuid;not null;index"`
	StartTime time.Time  `gorm:"column:start_time;not null"`
	EndTime   *time.Time `gorm:"column:end_time"`
}

func (AnalyticsSession) TableName() string { return "analytics_sessions" }
