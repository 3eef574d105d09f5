// Package metrics collects Prometheus counters for the board engine and
// exposes them for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the session engine's recorder on top of a
// Prometheus registry.
type Collector struct {
	reloads         prometheus.Counter
	reloadFailures  prometheus.Counter
	mutations       *prometheus.CounterVec
	toggleConflicts prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "habitboard_reloads_total",
			Help: "Total number of successful board snapshot reloads",
		}),
		reloadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "habitboard_reload_failures_total",
			Help: "Total number of board snapshot reloads that failed",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habitboard_mutations_total",
			Help: "Total number of applied board mutations by operation",
		}, []string{"op"}),
		toggleConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "habitboard_toggle_conflicts_total",
			Help: "Total number of entry toggles that lost a race to another session",
		}),
	}
	reg.MustRegister(
		c.reloads,
		c.reloadFailures,
		c.mutations,
		c.toggleConflicts,
	)
	return c
}

func (c *Collector) RecordReload() {
	c.reloads.Inc()
}

func (c *Collector) RecordReloadFailure() {
	c.reloadFailures.Inc()
}

func (c *Collector) RecordMutation(op string) {
	c.mutations.WithLabelValues(op).Inc()
}

func (c *Collector) RecordToggleConflict() {
	c.toggleConflicts.Inc()
}

// Handler returns the scrape endpoint for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
