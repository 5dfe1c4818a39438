// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for the update pipeline. Both hook in through the observer interfaces of
// the scheduler and the component tree, so the pipeline itself carries no
// metrics dependencies.
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/strandui/strand/pkg/component"
	"github.com/strandui/strand/pkg/scheduler"
)

// MetricsConfig configures the pipeline metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "strand").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the pipeline metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "strand",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics exposes the pipeline's Prometheus collectors. It implements
// scheduler.Observer and component.TreeObserver; register one instance on
// both to get the full picture.
type Metrics struct {
	updatesScheduled     *prometheus.CounterVec
	updatesProcessed     prometheus.Counter
	updateFailures       prometheus.Counter
	drainDuration        prometheus.Histogram
	drainSize            prometheus.Histogram
	lifecycleTransitions *prometheus.CounterVec
	treeOps              *prometheus.CounterVec
	treeOpDuration       *prometheus.HistogramVec
	stateFlushes         prometheus.Counter
	stateFlushSize       prometheus.Histogram
}

// NewMetrics creates and registers the pipeline collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		updatesScheduled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_scheduled_total",
			Help:        "Total number of component updates enqueued, by priority",
			ConstLabels: config.ConstLabels,
		}, []string{"priority"}),

		updatesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_processed_total",
			Help:        "Total number of component updates drained",
			ConstLabels: config.ConstLabels,
		}),

		updateFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "update_failures_total",
			Help:        "Total number of component updates that returned an error",
			ConstLabels: config.ConstLabels,
		}),

		drainDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "drain_duration_seconds",
			Help:        "Scheduler drain duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		drainSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "drain_size",
			Help:        "Number of updates processed per drain",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 12),
		}),

		lifecycleTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lifecycle_transitions_total",
			Help:        "Total number of lifecycle phase transitions, by target phase",
			ConstLabels: config.ConstLabels,
		}, []string{"phase"}),

		treeOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tree_operations_total",
			Help:        "Total number of tree-wide operations, by operation and status",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),

		treeOpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tree_operation_duration_seconds",
			Help:        "Tree-wide operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		stateFlushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "state_flushes_total",
			Help:        "Total number of flushed state change batches",
			ConstLabels: config.ConstLabels,
		}),

		stateFlushSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "state_flush_size",
			Help:        "Number of changes per flushed state batch",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// UpdateScheduled implements scheduler.Observer.
func (m *Metrics) UpdateScheduled(id uint64, priority scheduler.Priority) {
	m.updatesScheduled.WithLabelValues(priority.String()).Inc()
}

// DrainStarted implements scheduler.Observer.
func (m *Metrics) DrainStarted(ctx context.Context) context.Context {
	return ctx
}

// UpdateProcessed implements scheduler.Observer.
func (m *Metrics) UpdateProcessed(id uint64, err error) {
	m.updatesProcessed.Inc()
	if err != nil {
		m.updateFailures.Inc()
	}
}

// DrainCompleted implements scheduler.Observer.
func (m *Metrics) DrainCompleted(ctx context.Context, processed int, took time.Duration) {
	m.drainDuration.Observe(took.Seconds())
	m.drainSize.Observe(float64(processed))
}

// OpStarted implements component.TreeObserver.
func (m *Metrics) OpStarted(ctx context.Context, op string, id component.ID) (context.Context, func(error)) {
	start := time.Now()
	return ctx, func(err error) {
		status := "ok"
		if err != nil {
			status = "error"
		}
		m.treeOps.WithLabelValues(op, status).Inc()
		m.treeOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// PhaseChanged implements component.TreeObserver.
func (m *Metrics) PhaseChanged(id component.ID, phase component.Phase) {
	m.lifecycleTransitions.WithLabelValues(phase.String()).Inc()
}

// ObserveStateFlush records one flushed state batch. The state tracker has
// no observer hook, so update-pass drivers call this when a flush reaches
// them.
func (m *Metrics) ObserveStateFlush(size int) {
	m.stateFlushes.Inc()
	m.stateFlushSize.Observe(float64(size))
}
