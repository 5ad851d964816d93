package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/galeria-midia/backend/internal/analytics"
	"github.com/galeria-midia/backend/pkg/logger"
)

const (
	defaultExportWindow     = 24 * time.Hour
	engagementExportJobName = "engagement-export"
	exportBatchSize         = 500
)

type engagementRepo interface {
	EngagementBetween(ctx context.Context, start, end time.Time) ([]analytics.MediaEngagementDTO, error)
}

type warehouseWriter interface {
	InsertRows(ctx context.Context, table string, rows []any) error
	EngagementTable() string
}

// EngagementExportRow is the BigQuery schema for one aggregated media window.
type EngagementExportRow struct {
	MediaID        string    `bigquery:"media_id"`
	FileName       string    `bigquery:"file_name"`
	GroupID        string    `bigquery:"group_id"`
	GroupName      string    `bigquery:"group_name"`
	TotalVisibleMs int64     `bigquery:"total_visible_ms"`
	EventCount     int64     `bigquery:"event_count"`
	WindowStart    time.Time `bigquery:"window_start"`
	WindowEnd      time.Time `bigquery:"window_end"`
	ExportedAt     time.Time `bigquery:"exported_at"`
}

// EngagementExportJobParams configure the warehouse export.
type EngagementExportJobParams struct {
	Logger     *logger.Logger
	Repository engagementRepo
	Warehouse  warehouseWriter
	// Window is the size of the export slice ending at job time.
	Window time.Duration
}

// NewEngagementExportJob builds the job that ships per-media engagement
// aggregates to the warehouse.
func NewEngagementExportJob(params EngagementExportJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if params.Warehouse == nil {
		return nil, fmt.Errorf("warehouse writer required")
	}
	window := params.Window
	if window <= 0 {
		window = defaultExportWindow
	}
	return &engagementExportJob{
		logg:      params.Logger,
		repo:      params.Repository,
		warehouse: params.Warehouse,
		window:    window,
		now:       time.Now,
	}, nil
}

type engagementExportJob struct {
	logg      *logger.Logger
	repo      engagementRepo
	warehouse warehouseWriter
	window    time.Duration
	now       func() time.Time
}

func (j *engagementExportJob) Name() string { return engagementExportJobName }

func (j *engagementExportJob) Run(ctx context.Context) error {
	end := j.now().UTC().Truncate(time.Minute)
	start := end.Add(-j.window)

	aggregates, err := j.repo.EngagementBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("load engagement window: %w", err)
	}

	if len(aggregates) == 0 {
		logCtx := j.logg.WithFields(ctx, map[string]any{"window_start": start, "window_end": end})
		j.logg.Info(logCtx, "no engagement to export")
		return nil
	}

	exportedAt := j.now().UTC()
	rows := make([]any, 0, len(aggregates))
	for _, agg := range aggregates {
		rows = append(rows, &EngagementExportRow{
			MediaID:        agg.MediaID.String(),
			FileName:       agg.FileName,
			GroupID:        agg.GroupID.String(),
			GroupName:      agg.GroupName,
			TotalVisibleMs: agg.TotalVisibleMs,
			EventCount:     agg.EventCount,
			WindowStart:    start,
			WindowEnd:      end,
			ExportedAt:     exportedAt,
		})
	}

	table := j.warehouse.EngagementTable()
	var errs []error
	exported := 0
	for offset := 0; offset < len(rows); offset += exportBatchSize {
		limit := offset + exportBatchSize
		if limit > len(rows) {
			limit = len(rows)
		}
		if err := j.warehouse.InsertRows(ctx, table, rows[offset:limit]); err != nil {
			errs = append(errs, fmt.Errorf("insert rows [%d:%d]: %w", offset, limit, err))
			continue
		}
		exported += limit - offset
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"window_start":  start,
		"window_end":    end,
		"rows_total":    len(rows),
		"rows_exported": exported,
	})
	j.logg.Info(logCtx, "engagement export complete")

	return multierr.Combine(errs...)
}
