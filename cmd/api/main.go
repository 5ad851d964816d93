package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/galeria-midia/backend/api/routes"
	"github.com/galeria-midia/backend/internal/analytics"
	"github.com/galeria-midia/backend/internal/groups"
	"github.com/galeria-midia/backend/internal/media"
	"github.com/galeria-midia/backend/internal/profiles"
	"github.com/galeria-midia/backend/internal/view"
	"github.com/galeria-midia/backend/pkg/config"
	"github.com/galeria-midia/backend/pkg/db"
	"github.com/galeria-midia/backend/pkg/logger"
	"github.com/galeria-midia/backend/pkg/metrics"
	"github.com/galeria-midia/backend/pkg/migrate"
	"github.com/galeria-midia/backend/pkg/redis"
	"github.com/galeria-midia/backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing object storage", err)
		}
	}()

	ingestMetrics := metrics.NewIngestMetrics(prometheus.DefaultRegisterer)

	groupRepo := groups.NewRepository(dbClient.DB())
	mediaRepo := media.NewRepository(dbClient.DB())
	profileRepo := profiles.NewRepository(dbClient.DB())
	analyticsRepo := analytics.NewRepository(dbClient.DB())

	mediaURL := func(storageKey string) string {
		return gcsClient.PublicURL("", storageKey)
	}

	profileService, err := profiles.NewService(profileRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}
	groupService, err := groups.NewService(groupRepo, gcsClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create group service", err)
		os.Exit(1)
	}
	mediaService, err := media.NewService(mediaRepo, groupRepo, gcsClient, cfg.Media, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}
	analyticsService, err := analytics.NewService(analyticsRepo, groupRepo, cfg.Analytics, ingestMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}
	viewService, err := view.NewService(groupRepo, mediaURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create view service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			Redis:      redisClient,
			DB:         dbClient,
			Storage:    gcsClient,
			MediaURL:   mediaURL,
			Ingest:     ingestMetrics,
			PromGather: prometheus.DefaultGatherer,
			Profiles:   profileService,
			Groups:     groupService,
			Media:      mediaService,
			Analytics:  analyticsService,
			View:       viewService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
