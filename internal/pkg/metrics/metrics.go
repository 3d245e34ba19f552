// Package metrics defines the Prometheus collectors exported by the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBuckets are latency buckets in seconds.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const namespace = "salecat"

// Sale outcomes.
const (
	OutcomeSold     = "sold"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	sales       *prometheus.CounterVec
	ticketsSold prometheus.Counter
	unitsSold   prometheus.Counter
	mutations   *prometheus.CounterVec
	persist     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_total",
			Help:      "Sale attempts by entity type and outcome.",
		}, []string{"type", "outcome"}),
		ticketsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "raffle_tickets_sold_total",
			Help:      "Raffle tickets sold.",
		}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_units_sold_total",
			Help:      "Product units sold.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_mutations_total",
			Help:      "Catalog writes by operation and error kind.",
		}, []string{"operation", "result"}),
		persist: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persist_duration_seconds",
			Help:      "Snapshot write latency.",
			Buckets:   DefaultBuckets,
		}, []string{"result"}),
	}

	reg.MustRegister(m.sales, m.ticketsSold, m.unitsSold, m.mutations, m.persist)
	return m
}

// ObserveSale counts one sale attempt.
func (m *Metrics) ObserveSale(entityType, outcome string, units int) {
	if m == nil {
		return
	}
	m.sales.WithLabelValues(entityType, outcome).Inc()
	if outcome != OutcomeSold {
		return
	}
	switch entityType {
	case "raffle":
		m.ticketsSold.Add(float64(units))
	default:
		m.unitsSold.Add(float64(units))
	}
}

// ObserveMutation counts one catalog write attempt. result is "ok" or an error kind.
func (m *Metrics) ObserveMutation(operation, result string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, result).Inc()
}

// ObservePersist records how long a snapshot write took.
func (m *Metrics) ObservePersist(start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.persist.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
