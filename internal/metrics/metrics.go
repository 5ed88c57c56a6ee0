// Package metrics holds the prometheus collectors for the routing pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "routing"

var (
	StageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "stage_latency_seconds",
		Help:      "Latency of each pipeline stage.",
		Buckets:   []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"stage"})

	Outcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "outcomes_total",
		Help:      "Terminal outcome of each pipeline run.",
	}, []string{"status"})

	EmbeddingRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "embedding",
		Name:      "retries_total",
		Help:      "Embedding calls retried after a rate-limit response.",
	})

	EmbeddingDegraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "embedding",
		Name:      "degraded_total",
		Help:      "Embedding calls that fell back to the zero vector.",
	}, []string{"reason"})

	SearchFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "search",
		Name:      "fallback_total",
		Help:      "Unfiltered searches run after an empty language-filtered search.",
	})

	ReasoningFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reasoning",
		Name:      "failures_total",
		Help:      "Classification calls that produced an empty result.",
	}, []string{"reason"})

	Assignments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dispatch",
		Name:      "assignments_total",
		Help:      "Department assignment attempts by result.",
	}, []string{"result"})

	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dispatch",
		Name:      "deliveries_total",
		Help:      "Operator notification deliveries by result.",
	}, []string{"result"})
)

// ObserveStage records the time elapsed since start for stage.
func ObserveStage(stage string, start time.Time) {
	StageLatency.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
