// metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg              *prometheus.Registry
	detected         prometheus.Counter
	published        prometheus.Counter
	skipped          *prometheus.CounterVec
	rows             *prometheus.CounterVec
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
	lastSuccessEpoch prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	detected := prometheus.NewCounter(prometheus.CounterOpts{Name: "clearglobal_countries_detected_total"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "clearglobal_datasets_published_total"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "clearglobal_countries_skipped_total"}, []string{"reason"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "clearglobal_rows_fetched_total"}, []string{"admin_level"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "clearglobal_runs_total"}, []string{"result"})
	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "clearglobal_run_duration_seconds",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{Name: "clearglobal_last_success_timestamp_seconds"})

	r.MustRegister(detected, published, skipped, rows, runs, runDuration, lastSuccess)
	return &Registry{
		reg:              r,
		detected:         detected,
		published:        published,
		skipped:          skipped,
		rows:             rows,
		runs:             runs,
		runDuration:      runDuration,
		lastSuccessEpoch: lastSuccess,
	}
}

func (r *Registry) Detected(n int)           { r.detected.Add(float64(n)) }
func (r *Registry) Published()               { r.published.Inc() }
func (r *Registry) Skipped(reason string)    { r.skipped.WithLabelValues(reason).Inc() }
func (r *Registry) RowsFetched(level, n int) { r.rows.WithLabelValues(strconv.Itoa(level)).Add(float64(n)) }
func (r *Registry) RunFailed()               { r.runs.WithLabelValues("failed").Inc() }

func (r *Registry) RunCompleted(d time.Duration) {
	r.runs.WithLabelValues("completed").Inc()
	r.runDuration.Observe(d.Seconds())
	r.lastSuccessEpoch.SetToCurrentTime()
}

// Gatherer exposes the registry for exporters and test assertions.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// WriteTextfile dumps the current values in the node-exporter textfile format.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Gatherer())
}
