package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/galeria-midia/backend/pkg/logger"
)

const (
	defaultStaleCutoff  = 24 * time.Hour
	defaultGraceWindow  = 5 * time.Minute
	staleSessionJobName = "stale-sessions"
)

type staleSessionRepo interface {
	CloseStaleSessions(ctx context.Context, olderThan time.Time, graceWindow time.Duration) (int64, error)
}

// StaleSessionJobParams configure the stale-session sweep.
type StaleSessionJobParams struct {
	Logger     *logger.Logger
	Repository staleSessionRepo
	// Cutoff is how old an open session must be before it is closed.
	Cutoff time.Duration
	// Grace is the synthetic viewing length stamped on swept sessions.
	Grace time.Duration
}

// NewStaleSessionJob builds the job that closes sessions whose end beacon
// never arrived.
func NewStaleSessionJob(params StaleSessionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	cutoff := params.Cutoff
	if cutoff <= 0 {
		cutoff = defaultStaleCutoff
	}
	grace := params.Grace
	if grace <= 0 {
		grace = defaultGraceWindow
	}
	return &staleSessionJob{
		logg:   params.Logger,
		repo:   params.Repository,
		cutoff: cutoff,
		grace:  grace,
		now:    time.Now,
	}, nil
}

type staleSessionJob struct {
	logg   *logger.Logger
	repo   staleSessionRepo
	cutoff time.Duration
	grace  time.Duration
	now    func() time.Time
}

func (j *staleSessionJob) Name() string { return staleSessionJobName }

func (j *staleSessionJob) Run(ctx context.Context) error {
	olderThan := j.now().UTC().Add(-j.cutoff)
	closed, err := j.repo.CloseStaleSessions(ctx, olderThan, j.grace)
	if err != nil {
		return fmt.Errorf("close stale sessions: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"older_than":   olderThan,
		"rows_closed":  closed,
		"grace_window": j.grace.String(),
	})
	j.logg.Info(logCtx, "stale session sweep complete")
	return nil
}
