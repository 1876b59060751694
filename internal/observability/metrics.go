package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	syncRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "runsight",
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Sync runs by final outcome.",
	}, []string{"outcome"})
	syncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "runsight",
		Subsystem: "sync",
		Name:      "duration_seconds",
		Help:      "Wall-clock duration of a full sync run, collector included.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
	importedItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "runsight",
		Subsystem: "import",
		Name:      "items_total",
		Help:      "Rows upserted from collector output files, by category.",
	}, []string{"category"})
	importErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "runsight",
		Subsystem: "import",
		Name:      "errors_total",
		Help:      "Collector output files skipped due to parse or persistence errors.",
	}, []string{"category"})
)

func init() {
	prometheus.MustRegister(syncRunsTotal, syncDuration, importedItems, importErrors)
}

// RecordSyncRun tallies a finished sync run under its outcome
// ("success", "partial" or "failed") with its duration.
func RecordSyncRun(outcome string, elapsed time.Duration) {
	syncRunsTotal.WithLabelValues(outcome).Inc()
	syncDuration.Observe(elapsed.Seconds())
}

// RecordImport tallies processed rows and skipped files for one import
// category ("activities" or "daily_summaries").
func RecordImport(category string, processed, errors int) {
	importedItems.WithLabelValues(category).Add(float64(processed))
	importErrors.WithLabelValues(category).Add(float64(errors))
}
