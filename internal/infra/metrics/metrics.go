package metrics

import (
	"net/http"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/usecase/shared"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "booking_engine"

// Metrics owns a private registry so tests can build as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	settlements         *prometheus.CounterVec
	completionRejects   *prometheus.CounterVec
	matchOutcomes       *prometheus.CounterVec
	reservationConflict *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Settlements recorded, by outcome.",
		}, []string{"outcome"}),
		completionRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_rejections_total",
			Help:      "Completion requests rejected, by reason.",
		}, []string{"reason"}),
		matchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waitlist_match_outcomes_total",
			Help:      "Waitlist candidates processed, by result.",
		}, []string{"kind"}),
		reservationConflict: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_conflicts_total",
			Help:      "Reservations refused by the availability index, by key kind.",
		}, []string{"kind"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.settlements,
		m.completionRejects,
		m.matchOutcomes,
		m.reservationConflict,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

var _ shared.EngineMetrics = (*Metrics)(nil)

func (m *Metrics) SettlementRecorded(outcome string) {
	m.settlements.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CompletionRejected(reason string) {
	m.completionRejects.WithLabelValues(reason).Inc()
}

func (m *Metrics) MatchOutcome(kind string) {
	m.matchOutcomes.WithLabelValues(kind).Inc()
}

func (m *Metrics) ReservationConflict(kind availability.Kind) {
	m.reservationConflict.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
