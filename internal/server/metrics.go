package server

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "folio"

// Submission outcomes recorded by the submissions counter.
const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeLimited  = "limited"
)

// metrics exports session and submission counters. Each server owns its
// registry so several servers can live in one process.
type metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	evictions   prometheus.Counter
	completions prometheus.Counter
}

func newMetrics(sessions func() int) (*metrics, error) {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "submissions_total",
			Help:      "Chat submissions by kind and outcome.",
		}, []string{"kind", "outcome"}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "session_evictions_total",
			Help:      "Sessions dropped from the bounded session cache.",
		}),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "conversations_completed_total",
			Help:      "Conversations that reached the terminal step.",
		}),
	}
	active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "sessions_active",
		Help:      "Sessions currently held in memory.",
	}, func() float64 { return float64(sessions()) })

	for _, c := range []prometheus.Collector{m.submissions, m.evictions, m.completions, active} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("server: register metric: %w", err)
		}
	}
	return m, nil
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observe(kind string, rejection error) {
	outcome := outcomeAccepted
	if rejection != nil {
		outcome = outcomeRejected
	}
	m.submissions.WithLabelValues(kind, outcome).Inc()
}

func (m *metrics) limited(kind string) {
	m.submissions.WithLabelValues(kind, outcomeLimited).Inc()
}

func (m *metrics) evicted() {
	m.evictions.Inc()
}

// completed counts the transition into the terminal step once.
func (m *metrics) completed(wasDone, done bool, rejection error) {
	if rejection == nil && !wasDone && done {
		m.completions.Inc()
	}
}
