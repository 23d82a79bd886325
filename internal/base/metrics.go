package base

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 服务指标
type Metrics struct {
	TasksSubmitted prometheus.Counter
	TasksFinished  *prometheus.CounterVec
	Lookups        *prometheus.CounterVec
	CompareLatency prometheus.Histogram
}

// NewMetrics registers every metric on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TasksSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "countries_tasks_submitted_total",
			Help: "Comparison tasks accepted",
		}),
		TasksFinished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "countries_tasks_finished_total",
			Help: "Comparison tasks that reached a terminal status",
		}, []string{"status"}),
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "countries_lookups_total",
			Help: "Country lookups by the layer that answered them",
		}, []string{"source"}), // source: "cache", "store", "upstream"
		CompareLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "countries_compare_duration_seconds",
			Help:    "Duration of a single document comparison",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

func (m *Metrics) TaskSubmitted() {
	if m != nil {
		m.TasksSubmitted.Inc()
	}
}

func (m *Metrics) TaskFinished(status string) {
	if m != nil {
		m.TasksFinished.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) CompareDuration(d time.Duration) {
	if m != nil {
		m.CompareLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) Lookup(source string) {
	if m != nil {
		m.Lookups.WithLabelValues(source).Inc()
	}
}
