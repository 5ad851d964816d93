package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/galeria-midia/backend/api/controllers"
	"github.com/galeria-midia/backend/api/middleware"
	"github.com/galeria-midia/backend/internal/analytics"
	"github.com/galeria-midia/backend/internal/groups"
	"github.com/galeria-midia/backend/internal/media"
	"github.com/galeria-midia/backend/internal/profiles"
	"github.com/galeria-midia/backend/internal/view"
	"github.com/galeria-midia/backend/pkg/config"
	"github.com/galeria-midia/backend/pkg/logger"
	"github.com/galeria-midia/backend/pkg/metrics"
	"github.com/galeria-midia/backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	DB          controllers.Pinger
	Storage     controllers.Pinger
	MediaURL    func(storageKey string) string
	Ingest      *metrics.IngestMetrics
	PromGather  prometheus.Gatherer
	Profiles    profiles.Service
	Groups      groups.Service
	Media       media.Service
	Analytics   analytics.Service
	View        view.Service
}

// NewRouter assembles the HTTP surface: public tracking and slideshow
// endpoints, the authenticated owner API, health and metrics.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
			"storage":  deps.Storage,
		}))
	})

	if deps.PromGather != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromGather, promhttp.HandlerOpts{}))
	}

	// Public surface: anyone with a share code can watch and be counted.
	r.Get("/api/v1/view/{shareCode}", controllers.ViewByShareCode(deps.View, logg))

	ingestPolicy := middleware.NewIngestRateLimitPolicy(
		"analytics",
		cfg.IngestLimit.Window,
		int(cfg.IngestLimit.IPLimit),
	)
	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.IngestRateLimit(ingestPolicy, deps.Redis, deps.Ingest, logg))
			r.Post("/session/start", controllers.AnalyticsStartSession(deps.Analytics, logg))
			r.Post("/session/end", controllers.AnalyticsEndSession(deps.Analytics, logg))
			r.Post("/events", controllers.AnalyticsRecordEvents(deps.Analytics, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Identity, logg))
			r.Get("/dashboard", controllers.AnalyticsDashboard(deps.Analytics, logg))
		})
	})

	// Owner surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Identity, logg))

		r.Post("/auth/sync", controllers.ProfileSync(deps.Profiles, logg))
		r.Get("/profile", controllers.ProfileGet(deps.Profiles, logg))
		r.Put("/profile", controllers.ProfileUpdate(deps.Profiles, logg))

		r.Route("/groups", func(r chi.Router) {
			r.Post("/", controllers.GroupCreate(deps.Groups, logg))
			r.Get("/", controllers.GroupList(deps.Groups, logg, deps.MediaURL))
			r.Get("/{groupId}", controllers.GroupGet(deps.Groups, logg, deps.MediaURL))
			r.Delete("/{groupId}", controllers.GroupDelete(deps.Groups, logg))
			r.Post("/{groupId}/media", controllers.MediaUpload(deps.Media, cfg.Media, logg))
			r.Get("/{groupId}/media", controllers.MediaList(deps.Media, logg, deps.MediaURL))
		})

		r.Delete("/media/{mediaId}", controllers.MediaDelete(deps.Media, logg))
	})

	return r
}
