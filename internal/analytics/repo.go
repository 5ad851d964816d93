package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galeria-midia/backend/pkg/db/models"
)

// Repository handles session and event persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to analytics operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateSession inserts a new session row.
func (r *Repository) CreateSession(ctx context.Context, session *models.AnalyticsSession) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}
	return r.db.WithContext(ctx).Create(session).Error
}

// FindActiveSession loads the session only while it is still open.
func (r *Repository) FindActiveSession(ctx context.Context, sessionID string) (*models.AnalyticsSession, error) {
	var session models.AnalyticsSession
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND end_time IS NULL", sessionID).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// EndSession stamps the end time on an open session. Closing an unknown or
// already-closed session affects zero rows; callers treat that as fine.
func (r *Repository) EndSession(ctx context.Context, sessionID string, endedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.AnalyticsSession{}).
		Where("session_id = ? AND end_time IS NULL", sessionID).
		Update("end_time", endedAt)
	return res.RowsAffected, res.Error
}

// InsertEvents batch-inserts visibility events.
func (r *Repository) InsertEvents(ctx context.Context, events []models.VisibilityEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&events).Error
}

// activeSessionRow carries the session/group join for the dashboard.
type activeSessionRow struct {
	SessionID string
	GroupID   uuid.UUID
	GroupName string
	StartTime time.Time
}

// ActiveSessionsForOwner returns open sessions on the owner's groups started
// within the window.
func (r *Repository) ActiveSessionsForOwner(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]ActiveSessionDTO, error) {
	var rows []activeSessionRow
	err := r.db.WithContext(ctx).
		Table("analytics_sessions").
		Select("analytics_sessions.session_id, analytics_sessions.group_id, groups.name AS group_name, analytics_sessions.start_time").
		Joins("JOIN groups ON groups.id = analytics_sessions.group_id").
		Where("groups.owner_id = ?", ownerID).
		Where("analytics_sessions.end_time IS NULL").
		Where("analytics_sessions.start_time >= ?", since).
		Order("analytics_sessions.start_time DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]ActiveSessionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ActiveSessionDTO(row))
	}
	return out, nil
}

// engagementRow carries the per-media aggregate for the dashboard and export.
type engagementRow struct {
	MediaID        uuid.UUID
	FileName       string
	GroupID        uuid.UUID
	GroupName      string
	TotalVisibleMs int64
	EventCount     int64
}

// EngagementForOwner sums visible time per media across the owner's groups.
func (r *Repository) EngagementForOwner(ctx context.Context, ownerID uuid.UUID) ([]MediaEngagementDTO, error) {
	var rows []engagementRow
	err := r.db.WithContext(ctx).
		Table("analytics_events").
		Select(`media.id AS media_id,
			media.file_name,
			groups.id AS group_id,
			groups.name AS group_name,
			COALESCE(SUM(analytics_events.visible_duration_ms), 0) AS total_visible_ms,
			COUNT(analytics_events.id) AS event_count`).
		Joins("JOIN media ON media.id = analytics_events.media_id").
		Joins("JOIN groups ON groups.id = media.group_id").
		Where("groups.owner_id = ?", ownerID).
		Group("media.id, media.file_name, groups.id, groups.name").
		Order("total_visible_ms DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]MediaEngagementDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, MediaEngagementDTO(row))
	}
	return out, nil
}

// EngagementBetween sums visible time per media for events recorded inside
// the window, across all owners. Used by the export job.
func (r *Repository) EngagementBetween(ctx context.Context, start, end time.Time) ([]MediaEngagementDTO, error) {
	var rows []engagementRow
	err := r.db.WithContext(ctx).
		Table("analytics_events").
		Select(`media.id AS media_id,
			media.file_name,
			groups.id AS group_id,
			groups.name AS group_name,
			COALESCE(SUM(analytics_events.visible_duration_ms), 0) AS total_visible_ms,
			COUNT(analytics_events.id) AS event_count`).
		Joins("JOIN media ON media.id = analytics_events.media_id").
		Joins("JOIN groups ON groups.id = media.group_id").
		Where("analytics_events.created_at >= ? AND analytics_events.created_at < ?", start, end).
		Group("media.id, media.file_name, groups.id, groups.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]MediaEngagementDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, MediaEngagementDTO(row))
	}
	return out, nil
}

// CloseStaleSessions stamps an end time on sessions that never reported one.
// The synthetic end is start + graceWindow so the recorded duration stays
// plausible instead of spanning days.
func (r *Repository) CloseStaleSessions(ctx context.Context, olderThan time.Time, graceWindow time.Duration) (int64, error) {
	var closed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []models.AnalyticsSession
		if err := tx.
			Where("end_time IS NULL AND start_time < ?", olderThan).
			Find(&stale).Error; err != nil {
			return err
		}
		for i := range stale {
			end := stale[i].StartTime.Add(graceWindow)
			res := tx.Model(&models.AnalyticsSession{}).
				Where("id = ? AND end_time IS NULL", stale[i].ID).
				Update("end_time", end)
			if res.Error != nil {
				return res.Error
			}
			closed += res.RowsAffected
		}
		return nil
	})
	return closed, err
}
