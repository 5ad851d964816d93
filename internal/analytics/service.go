package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galeria-midia/backend/pkg/config"
	"github.com/galeria-midia/backend/pkg/db"
	"github.com/galeria-midia/backend/pkg/db/models"
	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
	"github.com/galeria-midia/backend/pkg/logger"
	"github.com/galeria-midia/backend/pkg/metrics"
)

type sessionRepository interface {
	CreateSession(ctx context.Context, session *models.AnalyticsSession) error
	FindActiveSession(ctx context.Context, sessionID string) (*models.AnalyticsSession, error)
	EndSession(ctx context.Context, sessionID string, endedAt time.Time) (int64, error)
	InsertEvents(ctx context.Context, events []models.VisibilityEvent) error
	ActiveSessionsForOwner(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]ActiveSessionDTO, error)
	EngagementForOwner(ctx context.Context, ownerID uuid.UUID) ([]MediaEngagementDTO, error)
}

type groupLookup interface {
	FindByShareCode(ctx context.Context, shareCode string) (*models.Group, error)
}

// Service exposes viewer tracking and the owner dashboard.
type Service interface {
	StartSession(ctx context.Context, input StartSessionDTO) (*SessionDTO, error)
	EndSession(ctx context.Context, input EndSessionDTO) error
	RecordEvents(ctx context.Context, input RecordEventsDTO) (int, error)
	Dashboard(ctx context.Context, ownerID uuid.UUID) (*DashboardDTO, error)
}

type service struct {
	repo   sessionRepository
	groups groupLookup
	cfg    config.AnalyticsConfig
	ingest *metrics.IngestMetrics
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the analytics service with the provided collaborators.
func NewService(repo sessionRepository, groups groupLookup, cfg config.AnalyticsConfig, ingest *metrics.IngestMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if groups == nil {
		return nil, fmt.Errorf("group lookup required")
	}
	return &service{
		repo:   repo,
		groups: groups,
		cfg:    cfg,
		ingest: ingest,
		logg:   logg,
		now:    time.Now,
	}, nil
}

// StartSession resolves the share code and opens a session. A reused session
// token is a conflict; the viewer must mint a fresh one.
func (s *service) StartSession(ctx context.Context, input StartSessionDTO) (*SessionDTO, error) {
	group, err := s.groups.FindByShareCode(ctx, input.ShareCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve share code")
	}

	session := &models.AnalyticsSession{
		SessionID: input.SessionID,
		GroupID:   group.ID,
		StartTime: s.now().UTC(),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "session already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	s.ingest.IncSessionStarted()

	return &SessionDTO{
		SessionID: session.SessionID,
		GroupID:   session.GroupID,
		StartTime: session.StartTime,
	}, nil
}

// EndSession closes the session. Viewers report this over a beacon on page
// unload, so an unknown or already-closed session is not an error.
func (s *service) EndSession(ctx context.Context, input EndSessionDTO) error {
	closed, err := s.repo.EndSession(ctx, input.SessionID, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "end session")
	}
	if closed == 0 {
		if s.logg != nil {
			logCtx := s.logg.WithSessionID(ctx, input.SessionID)
			s.logg.Info(logCtx, "analytics.end_session.noop")
		}
		return nil
	}
	s.ingest.IncSessionEnded()
	return nil
}

// RecordEvents persists a batch of exposures. The session must still be open.
func (s *service) RecordEvents(ctx context.Context, input RecordEventsDTO) (int, error) {
	if len(input.Events) == 0 {
		return 0, nil
	}

	session, err := s.repo.FindActiveSession(ctx, input.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "active session not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}

	events := make([]models.VisibilityEvent, 0, len(input.Events))
	for _, ev := range input.Events {
		if ev.MediaID == uuid.Nil {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "event media id is required")
		}
		if ev.VisibleDurationMs < 0 {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "visible duration cannot be negative")
		}
		events = append(events, models.VisibilityEvent{
			SessionID:         session.SessionID,
			MediaID:           ev.MediaID,
			VisibleDurationMs: ev.VisibleDurationMs,
		})
	}

	if err := s.repo.InsertEvents(ctx, events); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record events")
	}

	s.ingest.AddEventsRecorded(len(events))
	return len(events), nil
}

// Dashboard returns live viewers and per-media totals for the owner's groups.
func (s *service) Dashboard(ctx context.Context, ownerID uuid.UUID) (*DashboardDTO, error) {
	since := s.now().UTC().Add(-s.cfg.ActiveWindow)

	active, err := s.repo.ActiveSessionsForOwner(ctx, ownerID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active sessions")
	}

	engagement, err := s.repo.EngagementForOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load engagement")
	}

	return &DashboardDTO{
		ActiveSessionsCount: len(active),
		ActiveSessions:      active,
		MediaEngagement:     engagement,
	}, nil
}
