package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
)

const namespace = "hadith"

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	askRequestsTotal   *prometheus.CounterVec
	askFallbackTotal   *prometheus.CounterVec
	retrievalTierTotal *prometheus.CounterVec
	retrievedRecords   *prometheus.HistogramVec
	citedSources       *prometheus.HistogramVec
	askDuration        *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	askRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ask",
			Name:      "requests_total",
			Help:      "Total answered questions by provenance.",
		},
		[]string{"service", "endpoint", "provenance"},
	)
	askFallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ask",
			Name:      "fallback_total",
			Help:      "Total answers served by a fallback stage.",
		},
		[]string{"service", "endpoint"},
	)
	retrievalTierTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "tier_total",
			Help:      "Total retrievals by the tier that produced candidates.",
		},
		[]string{"service", "endpoint", "tier"},
	)
	retrievedRecords := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "candidates",
			Help:      "Distribution of candidates per retrieval.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "endpoint"},
	)
	citedSources := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ask",
			Name:      "cited_sources",
			Help:      "Distribution of cited sources per answer.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		},
		[]string{"service", "endpoint"},
	)
	askDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ask",
			Name:      "duration_seconds",
			Help:      "Question answering duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		askRequestsTotal,
		askFallbackTotal,
		retrievalTierTotal,
		retrievedRecords,
		citedSources,
		askDuration,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		askRequestsTotal:   askRequestsTotal,
		askFallbackTotal:   askFallbackTotal,
		retrievalTierTotal: retrievalTierTotal,
		retrievedRecords:   retrievedRecords,
		citedSources:       citedSources,
		askDuration:        askDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/"), path == "/healthz", path == "/metrics":
		return path
	default:
		return "other"
	}
}

// RecordAnswer observes one served answer.
func (m *HTTPServerMetrics) RecordAnswer(service, endpoint string, answer *domain.Answer, duration time.Duration) {
	if answer == nil {
		return
	}
	provenance := string(answer.Provenance)
	if provenance == "" {
		provenance = "unknown"
	}
	m.askRequestsTotal.WithLabelValues(service, endpoint, provenance).Inc()
	if answer.UsedFallback {
		m.askFallbackTotal.WithLabelValues(service, endpoint).Inc()
	}
	m.citedSources.WithLabelValues(service, endpoint).Observe(float64(len(answer.Sources)))
	m.askDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())
	if answer.Provenance != domain.ProvenanceGreeting {
		m.RecordRetrieval(service, endpoint, answer.Tier, answer.Candidates)
	}
}

// RecordRetrieval counts the tier that produced candidates; an empty tier is
// recorded as "none".
func (m *HTTPServerMetrics) RecordRetrieval(service, endpoint string, tier domain.MatchTier, candidates int) {
	label := string(tier)
	if label == "" {
		label = "none"
	}
	m.retrievalTierTotal.WithLabelValues(service, endpoint, label).Inc()
	m.retrievedRecords.WithLabelValues(service, endpoint).Observe(float64(candidates))
}

// RegisterBreakerStates exposes circuit breaker states as a gauge per
// operation: 0 closed, 1 half-open, 2 open.
func (m *HTTPServerMetrics) RegisterBreakerStates(states func() map[string]string) {
	m.registry.MustRegister(&breakerCollector{
		states: states,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "provider", "breaker_state"),
			"Circuit breaker state per guarded operation.",
			[]string{"operation"},
			nil,
		),
	})
}

type breakerCollector struct {
	states func() map[string]string
	desc   *prometheus.Desc
}

func (c *breakerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *breakerCollector) Collect(ch chan<- prometheus.Metric) {
	for operation, state := range c.states() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, breakerStateValue(state), operation)
	}
}

func breakerStateValue(state string) float64 {
	switch state {
	case "open":
		return 2
	case "half-open":
		return 1
	default:
		return 0
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
