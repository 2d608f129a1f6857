// Package metrics registers the Prometheus collectors that track cache
// refresh cost and server reachability, mirroring the four series the
// original service exposed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the collectors a Coalescer reports through. It is
// constructed once and injected rather than kept as package state, so
// tests can register an isolated prometheus.Registry.
type Registry struct {
	UpdateDuration  *prometheus.HistogramVec
	RequestDuration *prometheus.HistogramVec
	ServerOnline    *prometheus.CounterVec
	ServerOffline   *prometheus.CounterVec
}

// New registers the collectors against reg and returns a Registry handle.
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		UpdateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "mcapi_update_duration_seconds",
			Help: "Duration to update a server",
		}, []string{"method"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "mcapi_request_duration_seconds",
			Help: "Total duration for a request",
		}, []string{"method"}),

		ServerOnline: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mcapi_server_online_total",
			Help: "Number of servers that were online when checked",
		}, []string{"method"}),

		ServerOffline: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mcapi_server_offline_total",
			Help: "Number of servers that were offline when checked",
		}, []string{"method"}),
	}
}

// ObserveRefresh records the outcome of one cache refresh: how long the
// underlying fetch took and whether the server answered.
func (r *Registry) ObserveRefresh(method string, seconds float64, online bool) {
	r.UpdateDuration.WithLabelValues(method).Observe(seconds)
	if online {
		r.ServerOnline.WithLabelValues(method).Inc()
	} else {
		r.ServerOffline.WithLabelValues(method).Inc()
	}
}

// ObserveRequest records the total wall-clock time a single HTTP lookup
// took, including any cache hit, refresh, or lock wait.
func (r *Registry) ObserveRequest(method string, seconds float64) {
	r.RequestDuration.WithLabelValues(method).Observe(seconds)
}
