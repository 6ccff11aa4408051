package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup results.
const (
	CacheHitEphemeral = "hit_ephemeral"
	CacheHitDurable   = "hit_durable"
	CacheMiss         = "miss"
)

// Manager manages all Prometheus metrics for the pricer.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	cacheLookups   *prometheus.CounterVec
	sourceFetches  *prometheus.CounterVec
	budgetDenied   prometheus.Counter
	resolutions    *prometheus.CounterVec
	refreshRows    *prometheus.CounterVec
	refreshRuns    *prometheus.CounterVec
	budgetUsed     prometheus.Gauge
	runDuration    prometheus.Histogram
	lastRunSeconds prometheus.Gauge
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "pricer",
		buckets:   []float64{1, 5, 15, 30, 60, 120, 240, 330},
		registry:  prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "cache_lookups_total",
		Help:      "Cache lookups by namespace and result tier",
	}, []string{"namespace", "result"})

	m.sourceFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "source_fetches_total",
		Help:      "Observation source fetches by outcome",
	}, []string{"source", "outcome"})

	m.budgetDenied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "budget_denied_total",
		Help:      "Scraped fetches refused because the run budget was spent",
	})

	m.resolutions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "resolutions_total",
		Help:      "Price resolutions by method",
	}, []string{"method"})

	m.refreshRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "rows_total",
		Help:      "Rows processed by the refresh scheduler by outcome",
	}, []string{"outcome"})

	m.refreshRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "runs_total",
		Help:      "Refresh invocations by result (checkpointed, complete, failed)",
	}, []string{"result"})

	m.budgetUsed = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "budget_used",
		Help:      "Scraped fetch budget consumed in the current run",
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "invocation_seconds",
		Help:      "Wall time of a single refresh invocation",
		Buckets:   m.buckets,
	})

	m.lastRunSeconds = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "last_complete_unixtime",
		Help:      "Unix time of the last completed refresh",
	})
}

// Handler returns the scrape handler for this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Manager) CacheLookup(namespace, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(namespace, result).Inc()
}

func (m *Manager) SourceFetch(source, outcome string) {
	if m == nil {
		return
	}
	m.sourceFetches.WithLabelValues(source, outcome).Inc()
}

func (m *Manager) BudgetDenied() {
	if m == nil {
		return
	}
	m.budgetDenied.Inc()
}

func (m *Manager) BudgetUsed(n int) {
	if m == nil {
		return
	}
	m.budgetUsed.Set(float64(n))
}

func (m *Manager) Resolution(method string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(method).Inc()
}

func (m *Manager) RefreshRow(outcome string) {
	if m == nil {
		return
	}
	m.refreshRows.WithLabelValues(outcome).Inc()
}

// RefreshRun records one scheduler invocation.
func (m *Manager) RefreshRun(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.refreshRuns.WithLabelValues(result).Inc()
	m.runDuration.Observe(took.Seconds())
}

func (m *Manager) RefreshComplete(at time.Time) {
	if m == nil {
		return
	}
	m.lastRunSeconds.Set(float64(at.Unix()))
}
