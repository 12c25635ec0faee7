package metrics

import (
	"net/http"

	"agents-manager/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agents"

// Collector counts reconcile events. It owns its registry so several collectors
// (tests, embedded servers) never clash on registration.
type Collector struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	lastEvent  *prometheus.GaugeVec
}

// New builds a collector with Go runtime and process metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "operations_total",
			Help:      "Applied sync steps by kind, operation, action, environment and result.",
		}, []string{"kind", "operation", "action", "env", "result"}),
		lastEvent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "last_event_timestamp_seconds",
			Help:      "Unix time of the last applied sync step per kind and operation.",
		}, []string{"kind", "operation"}),
	}
	c.registry.MustRegister(
		c.operations,
		c.lastEvent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Observe implements reconcile.Observer.
func (c *Collector) Observe(e reconcile.Event) {
	result := "ok"
	if e.Err != nil {
		result = "error"
	}
	c.operations.WithLabelValues(string(e.Kind), string(e.Operation), string(e.Action), e.Environment, result).Inc()
	if !e.Time.IsZero() {
		c.lastEvent.WithLabelValues(string(e.Kind), string(e.Operation)).Set(float64(e.Time.Unix()))
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
