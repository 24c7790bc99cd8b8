// Package metrics records dispatch outcomes as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/dispatch-lab/pkg/dispatch"
)

// Recorder is a dispatch.Observer backed by a private Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a recorder whose metrics are prefixed with namespace.
func New(namespace string) *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Dispatched requests by method, route, status and outcome.",
			},
			[]string{"method", "route", "status", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Time spent dispatching a request.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "outcome"},
		),
	}
}

// Observe implements dispatch.Observer.
func (r *Recorder) Observe(out dispatch.Outcome) {
	outcome := out.Result.String()

	r.requests.WithLabelValues(methodLabel(out.Method), out.Route, strconv.Itoa(out.Status), outcome).Inc()
	r.duration.WithLabelValues(out.Route, outcome).Observe(out.Duration.Seconds())
}

// methodLabel bounds the method label to the standard methods. Clients choose
// the method, so anything else collapses into "other".
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodConnect,
		http.MethodOptions, http.MethodTrace:
		return method
	}
	return "other"
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry:           r.registry,
		DisableCompression: true,
	})
}
