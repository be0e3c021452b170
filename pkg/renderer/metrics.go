package renderer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "genui").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registerer to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collector.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the pass-duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegisterer sets the Prometheus registerer.
func WithRegisterer(reg prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = reg
	}
}

// Metrics is the process-level Prometheus view of the renderer. Per-pass
// statistics remain the Stats snapshot; these counters accumulate across
// passes. Each Metrics instance registers its own collectors, so separate
// renderers can share one or use separate registerers.
type Metrics struct {
	passesTotal       *prometheus.CounterVec
	passDuration      prometheus.Histogram
	componentsTotal   *prometheus.CounterVec
	fallbacksTotal    prometheus.Counter
	interactionsTotal *prometheus.CounterVec
	dataChangesTotal  prometheus.Counter
	activeInstances   prometheus.Gauge
}

// NewMetrics creates and registers the renderer's Prometheus collectors.
//
// Metrics exposed:
//   - genui_render_passes_total: Counter of passes by status
//   - genui_render_pass_duration_seconds: Histogram of pass duration
//   - genui_components_rendered_total: Counter of instances by actual type
//   - genui_fallbacks_total: Counter of fallback resolutions
//   - genui_interactions_total: Counter of bridged interactions by event type
//   - genui_data_changes_total: Counter of bridged data changes
//   - genui_active_instances: Gauge of currently mounted instances
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "genui",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "render_passes_total",
			Help:        "Total number of render passes by status",
			ConstLabels: cfg.ConstLabels,
		}, []string{"status"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "render_pass_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),

		componentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "components_rendered_total",
			Help:        "Total widget instances created by actual type",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type"}),

		fallbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "fallbacks_total",
			Help:        "Total entries resolved through the fallback chain",
			ConstLabels: cfg.ConstLabels,
		}),

		interactionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "interactions_total",
			Help:        "Total bridged widget interactions by event type",
			ConstLabels: cfg.ConstLabels,
		}, []string{"event_type"}),

		dataChangesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "data_changes_total",
			Help:        "Total bridged widget data changes",
			ConstLabels: cfg.ConstLabels,
		}),

		activeInstances: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        "active_instances",
			Help:        "Widget instances currently mounted",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

func (m *Metrics) recordPass(success bool, elapsed time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.passesTotal.WithLabelValues(status).Inc()
	m.passDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) recordComponents(s *Stats) {
	for typ, n := range s.ComponentsByType {
		m.componentsTotal.WithLabelValues(typ).Add(float64(n))
	}
	m.fallbacksTotal.Add(float64(s.FallbacksUsed))
}

func (m *Metrics) recordInteraction(eventType string) {
	m.interactionsTotal.WithLabelValues(eventType).Inc()
}

func (m *Metrics) recordDataChange() {
	m.dataChangesTotal.Inc()
}

func (m *Metrics) setActiveInstances(n int) {
	m.activeInstances.Set(float64(n))
}
