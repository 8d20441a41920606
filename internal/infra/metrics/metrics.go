// Package metrics records daybook operational metrics with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/daybook-app/daybook/internal/domain"
)

// Ensure Prometheus implements domain.Recorder.
var _ domain.Recorder = (*Prometheus)(nil)

// Prometheus implements domain.Recorder with collectors registered on a
// caller-provided registry.
type Prometheus struct {
	mutations        *prometheus.CounterVec
	narrations       *prometheus.CounterVec
	narrationLatency *prometheus.HistogramVec
}

// New registers the daybook collectors on reg.
func New(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "daybook_task_mutations_total",
				Help: "Task store mutations by operation and result",
			},
			[]string{"op", "result"},
		),
		narrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "daybook_narrations_total",
				Help: "Narrations produced by kind and text source",
			},
			[]string{"kind", "source"},
		),
		narrationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "daybook_narration_duration_seconds",
				Help:    "Time spent producing a narration, fallback included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
}

// TaskMutation counts one store mutation.
func (p *Prometheus) TaskMutation(op string, applied bool) {
	result := "applied"
	if !applied {
		result = "noop"
	}
	p.mutations.WithLabelValues(op, result).Inc()
}

// Narration counts one narration and observes its latency.
func (p *Prometheus) Narration(kind domain.NarrationKind, source domain.NarrationSource, elapsed time.Duration) {
	p.narrations.WithLabelValues(string(kind), string(source)).Inc()
	p.narrationLatency.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

// RegisterStoreGauges exposes the size of the task collection. snapshot is
// called on every scrape.
func RegisterStoreGauges(reg prometheus.Registerer, snapshot func() []domain.Task) {
	factory := promauto.With(reg)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "daybook_tasks",
			Help: "Tasks currently stored",
		},
		func() float64 { return float64(len(snapshot())) },
	)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "daybook_tasks_completed",
			Help: "Completed tasks currently stored",
		},
		func() float64 { return float64(domain.CountCompleted(snapshot())) },
	)
}
