// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector aggregates Prometheus metrics for the generation path. All
// methods are safe on a nil receiver so instrumentation stays optional.
type Collector struct {
	llmRequestsTotal   *prometheus.CounterVec
	llmRequestDuration *prometheus.HistogramVec
	llmRetriesTotal    *prometheus.CounterVec
	pacingWaitSeconds  prometheus.Counter
	debatesTotal       *prometheus.CounterVec
	stageDuration      *prometheus.HistogramVec

	logger *zap.Logger
}

// NewCollector registers all metrics under the given namespace.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.llmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of LLM generation requests",
		},
		[]string{"provider", "outcome"},
	)

	c.llmRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "LLM generation request duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider"},
	)

	c.llmRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_retries_total",
			Help:      "Total number of LLM request retries",
		},
		[]string{"provider"},
	)

	c.pacingWaitSeconds = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pacing_wait_seconds_total",
			Help:      "Cumulative seconds spent waiting on the call pacer",
		},
	)

	c.debatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debates_total",
			Help:      "Total number of debate runs by outcome",
		},
		[]string{"outcome"},
	)

	c.stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "debate_stage_duration_seconds",
			Help:      "Duration of each debate stage in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"stage"},
	)

	c.logger.Debug("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// RecordLLMRequest records one generation request and its duration.
func (c *Collector) RecordLLMRequest(provider, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.llmRequestsTotal.WithLabelValues(provider, outcome).Inc()
	c.llmRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordLLMRetry records one retry of a generation request.
func (c *Collector) RecordLLMRetry(provider string) {
	if c == nil {
		return
	}
	c.llmRetriesTotal.WithLabelValues(provider).Inc()
}

// RecordPacingWait records time spent blocked on the pacer.
func (c *Collector) RecordPacingWait(d time.Duration) {
	if c == nil {
		return
	}
	c.pacingWaitSeconds.Add(d.Seconds())
}

// RecordDebate records a completed or failed debate run.
func (c *Collector) RecordDebate(outcome string) {
	if c == nil {
		return
	}
	c.debatesTotal.WithLabelValues(outcome).Inc()
}

// RecordStage records the duration of a single debate stage.
func (c *Collector) RecordStage(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
