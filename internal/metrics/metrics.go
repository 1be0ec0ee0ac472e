// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "giftcircle"

// Metrics is a private registry plus the collectors the service updates.
type Metrics struct {
	Registry *prometheus.Registry

	rpcInFlight   prometheus.Gauge
	rpcRequests   *prometheus.CounterVec
	rpcDuration   *prometheus.HistogramVec
	contributions *prometheus.CounterVec
	contributed   prometheus.Counter
	fulfilled     prometheus.Counter
	storeRetries  prometheus.Counter
}

// New creates and registers every collector, plus the Go and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		rpcInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight RPCs.",
		}),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total number of RPCs handled.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "Duration of RPCs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}, []string{"procedure"}),
		contributions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "contributions_total",
			Help:      "Contributions applied, by contribution type.",
		}, []string{"type"}),
		contributed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "contributed_amount_total",
			Help:      "Sum of all applied contribution amounts.",
		}),
		fulfilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "items_fulfilled_total",
			Help:      "Items that became FULFILLED through a contribution.",
		}),
		storeRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "retries_total",
			Help:      "Writes retried after a version conflict or timeout.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcInFlight,
		m.rpcRequests,
		m.rpcDuration,
		m.contributions,
		m.contributed,
		m.fulfilled,
		m.storeRetries,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RPCStarted marks an RPC in flight and returns the func that records its
// outcome.
func (m *Metrics) RPCStarted(procedure string) func(code string) {
	start := time.Now()
	m.rpcInFlight.Inc()
	return func(code string) {
		m.rpcInFlight.Dec()
		m.rpcRequests.WithLabelValues(procedure, code).Inc()
		m.rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
	}
}

// ObserveContribution records an applied contribution.
func (m *Metrics) ObserveContribution(contributionType string, amount float64, fulfilled bool) {
	m.contributions.WithLabelValues(contributionType).Inc()
	m.contributed.Add(amount)
	if fulfilled {
		m.fulfilled.Inc()
	}
}

// StoreRetry counts one retried write. Its signature matches
// backoff.Notify.
func (m *Metrics) StoreRetry(error, time.Duration) {
	m.storeRetries.Inc()
}
