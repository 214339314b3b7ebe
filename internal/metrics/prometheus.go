// Package metrics defines the prometheus collectors for store, backup and
// checklist activity.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TableSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenderlist_table_saves_total",
			Help: "Table saves by table and outcome",
		},
		[]string{"table", "status"},
	)

	Backups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenderlist_backups_total",
			Help: "Backup attempts by table and outcome (created, skipped, failed)",
		},
		[]string{"table", "status"},
	)

	LoadFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenderlist_load_fallbacks_total",
			Help: "Table loads that fell back to built-in defaults",
		},
		[]string{"table", "reason"},
	)

	Summaries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenderlist_checklist_summaries_total",
			Help: "Checklist summaries computed",
		},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(TableSaves)
		prometheus.MustRegister(Backups)
		prometheus.MustRegister(LoadFallbacks)
		prometheus.MustRegister(Summaries)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
