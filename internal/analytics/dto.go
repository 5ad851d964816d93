package analytics

import (
	"time"

	"github.com/google/uuid"
)

// StartSessionDTO opens a viewing session against a share code. The session
// token is minted by the viewer so the endpoint stays stateless for clients.
type StartSessionDTO struct {
	SessionID string `json:"session_id" validate:"required,max=128"`
	ShareCode string `json:"share_code" validate:"required,len=8,alphanum"`
}

// EndSessionDTO closes a viewing session.
type EndSessionDTO struct {
	SessionID string `json:"session_id" validate:"required,max=128"`
}

// VisibilityEventDTO is one media exposure reported by the viewer.
type VisibilityEventDTO struct {
	MediaID           uuid.UUID `json:"media_id" validate:"required"`
	VisibleDurationMs int64     `json:"visible_duration_ms" validate:"min=0"`
}

// RecordEventsDTO carries a batch of exposures for one session. An empty
// batch is legal and acknowledged without touching storage.
type RecordEventsDTO struct {
	SessionID string               `json:"session_id" validate:"required,max=128"`
	Events    []VisibilityEventDTO `json:"events" validate:"max=500,dive"`
}

// SessionDTO exposes a tracked session in API responses.
type SessionDTO struct {
	SessionID string     `json:"session_id"`
	GroupID   uuid.UUID  `json:"group_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// ActiveSessionDTO is one live viewer on the engagement dashboard.
type ActiveSessionDTO struct {
	SessionID string    `json:"session_id"`
	GroupID   uuid.UUID `json:"group_id"`
	GroupName string    `json:"group_name"`
	StartTime time.Time `json:"start_time"`
}

// MediaEngagementDTO aggregates total visible time for one media item.
type MediaEngagementDTO struct {
	MediaID        uuid.UUID `json:"media_id"`
	FileName       string    `json:"file_name"`
	GroupID        uuid.UUID `json:"group_id"`
	GroupName      string    `json:"group_name"`
	TotalVisibleMs int64     `json:"total_visible_ms"`
	EventCount     int64     `json:"event_count"`
}

// DashboardDTO is the owner-scoped engagement snapshot. The session list
// enriches the headline count with per-viewer detail.
type DashboardDTO struct {
	ActiveSessionsCount int                  `json:"active_sessions_count"`
	ActiveSessions      []ActiveSessionDTO   `json:"active_sessions"`
	MediaEngagement     []MediaEngagementDTO `json:"media_engagement"`
}
