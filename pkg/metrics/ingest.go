package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics counts analytics traffic from public viewers.
type IngestMetrics struct {
	sessionsStarted prometheus.Counter
	sessionsEnded   prometheus.Counter
	eventsRecorded  prometheus.Counter
	rateLimited     prometheus.Counter
}

// NewIngestMetrics registers the analytics ingest counters on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	sessionsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analytics_sessions_started_total",
		Help: "Viewer sessions opened through the public tracking endpoint.",
	})
	sessionsEnded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analytics_sessions_ended_total",
		Help: "Viewer sessions closed through the public tracking endpoint.",
	})
	eventsRecorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analytics_events_recorded_total",
		Help: "Visibility events accepted for storage.",
	})
	rateLimited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analytics_ingest_rate_limited_total",
		Help: "Ingest requests rejected by the rate limiter.",
	})
	reg.MustRegister(sessionsStarted, sessionsEnded, eventsRecorded, rateLimited)
	return &IngestMetrics{
		sessionsStarted: sessionsStarted,
		sessionsEnded:   sessionsEnded,
		eventsRecorded:  eventsRecorded,
		rateLimited:     rateLimited,
	}
}

func (m *IngestMetrics) IncSessionStarted() {
	if m == nil || m.sessionsStarted == nil {
		return
	}
	m.sessionsStarted.Inc()
}

func (m *IngestMetrics) IncSessionEnded() {
	if m == nil || m.sessionsEnded == nil {
		return
	}
	m.sessionsEnded.Inc()
}

// AddEventsRecorded adds the size of an accepted event batch.
func (m *IngestMetrics) AddEventsRecorded(n int) {
	if m == nil || m.eventsRecorded == nil || n <= 0 {
		return
	}
	m.eventsRecorded.Add(float64(n))
}

func (m *IngestMetrics) IncRateLimited() {
	if m == nil || m.rateLimited == nil {
		return
	}
	m.rateLimited.Inc()
}
