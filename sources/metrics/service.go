package metrics

import (
	"time"

	"storyforge/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService struct {
	log *tracing.Logger
}

var (
	backendAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_backend_attempts_total",
			Help: "Total number of backend attempts by outcome",
		},
		[]string{"model", "outcome"},
	)

	generationsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_generations_total",
			Help: "Total number of generation requests by kind and status",
		},
		[]string{"kind", "status"},
	)

	slotRedrives = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storyforge_slot_redrives_total",
			Help: "Total number of batch slots re-issued after an empty result",
		},
	)

	tokenUsage = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_token_usage_total",
			Help: "Total number of tokens used",
		},
		[]string{"model", "type"},
	)

	costUsage = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_cost_usage_total",
			Help: "Total cost incurred in USD",
		},
		[]string{"model"},
	)

	backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storyforge_backend_request_duration_seconds",
			Help:    "Duration of single backend requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	batchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storyforge_batch_duration_seconds",
			Help:    "Total duration of batch generations",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	inflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storyforge_backend_inflight_requests",
			Help: "Number of backend requests currently outstanding",
		},
	)

	statsTotalCost = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storyforge_stats_total_cost",
			Help: "Running total recorded by the cost ledger",
		},
	)
)

func init() {
	prometheus.MustRegister(backendAttempts)
	prometheus.MustRegister(generationsCompleted)
	prometheus.MustRegister(slotRedrives)
	prometheus.MustRegister(tokenUsage)
	prometheus.MustRegister(costUsage)
	prometheus.MustRegister(backendRequestDuration)
	prometheus.MustRegister(batchDuration)
	prometheus.MustRegister(inflightRequests)
	prometheus.MustRegister(statsTotalCost)
}

func NewMetricsService(log *tracing.Logger) *MetricsService {
	return &MetricsService{
		log: log,
	}
}

// A nil service records nothing, which keeps components usable without metrics wiring.

func (s *MetricsService) RecordAttempt(model string, outcome string) {
	if s == nil {
		return
	}
	backendAttempts.WithLabelValues(model, outcome).Inc()
}

func (s *MetricsService) RecordGeneration(kind string, status string) {
	if s == nil {
		return
	}
	generationsCompleted.WithLabelValues(kind, status).Inc()
}

func (s *MetricsService) RecordSlotRedrive() {
	if s == nil {
		return
	}
	slotRedrives.Inc()
}

func (s *MetricsService) RecordUsage(inputTokens, outputTokens int, cost float64, model string) {
	if s == nil {
		return
	}
	tokenUsage.WithLabelValues(model, "input").Add(float64(inputTokens))
	tokenUsage.WithLabelValues(model, "output").Add(float64(outputTokens))
	costUsage.WithLabelValues(model).Add(cost)
}

func (s *MetricsService) RecordBackendRequestDuration(duration time.Duration, model string) {
	if s == nil {
		return
	}
	backendRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
}

func (s *MetricsService) RecordBatchDuration(duration time.Duration) {
	if s == nil {
		return
	}
	batchDuration.Observe(duration.Seconds())
}

// TrackInflight increments the in-flight gauge and returns its matching decrement.
func (s *MetricsService) TrackInflight() func() {
	if s == nil {
		return func() {}
	}
	inflightRequests.Inc()
	return inflightRequests.Dec
}

func (s *MetricsService) SetTotalCost(cost float64) {
	if s == nil {
		return
	}
	statsTotalCost.Set(cost)
}
