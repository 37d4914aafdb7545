// Package metrics holds the Prometheus collectors of the balance server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "balance"

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests      *prometheus.CounterVec
	RPCDuration      *prometheus.HistogramVec
	Recalculations   *prometheus.CounterVec
	GroupSize        prometheus.Gauge
	PlannedTransfers prometheus.Histogram
	EventsPublished  *prometheus.CounterVec
}

// New registers every collector on a fresh registry, alongside the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		Recalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recalculations_total",
			Help:      "Balance recalculations by trigger.",
		}, []string{"trigger"}),
		GroupSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "group_participants",
			Help:      "Participants in the group after the last recalculation.",
		}),
		PlannedTransfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_transfers",
			Help:      "Transfers per computed settlement plan.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Recalculation events by publish outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RPCRequests,
		m.RPCDuration,
		m.Recalculations,
		m.GroupSize,
		m.PlannedTransfers,
		m.EventsPublished,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRecalculation records a persisted recalculation over size participants.
func (m *Metrics) ObserveRecalculation(trigger string, size int) {
	if m == nil {
		return
	}
	m.Recalculations.WithLabelValues(trigger).Inc()
	m.GroupSize.Set(float64(size))
}

// ObservePlan records the length of a computed settlement plan.
func (m *Metrics) ObservePlan(transfers int) {
	if m == nil {
		return
	}
	m.PlannedTransfers.Observe(float64(transfers))
}

// ObserveEvent records the outcome of one event publish.
func (m *Metrics) ObserveEvent(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.EventsPublished.WithLabelValues(outcome).Inc()
}
