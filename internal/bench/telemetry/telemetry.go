// Package telemetry exports trial progress as Prometheus metrics. Metrics are
// registered at init and labelled only by variant, so cardinality is bounded
// by the fixed set of backends.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"slabbench/internal/bench/core"
	"slabbench/internal/bench/maps"
)

// Config controls the optional metrics endpoint.
//
// MetricsAddr, when non-empty, starts a dedicated HTTP server that serves
// /metrics. Leave it empty when the process exposes Prometheus elsewhere.
type Config struct {
	MetricsAddr string
}

var (
	operationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slabbench_operations_total",
		Help: "Put/get pairs executed in measured iterations",
	}, []string{"variant"})
	payloadBytesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slabbench_payload_bytes_total",
		Help: "Encoded record bytes written in measured iterations",
	}, []string{"variant"})
	iterationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slabbench_iteration_seconds",
		Help:    "Wall time of one measured invocation",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"variant"})
	trialErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slabbench_trial_errors_total",
		Help: "Trials that ended with an error",
	}, []string{"variant"})
	capacityPerSegment = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "slabbench_capacity_per_segment_bytes",
		Help: "Planned per-segment capacity of the current trial (0 for the baseline)",
	}, []string{"variant"})
)

func init() {
	prometheus.MustRegister(operationsTotal, payloadBytesTotal, iterationSeconds, trialErrorsTotal, capacityPerSegment)
}

// Enable applies cfg. Safe to call more than once; each non-empty address
// starts its own server.
func Enable(cfg Config) {
	if cfg.MetricsAddr != "" {
		startMetricsEndpoint(cfg.MetricsAddr)
	}
}

// Handler returns the /metrics handler for callers that run their own mux.
func Handler() http.Handler { return promhttp.Handler() }

func startMetricsEndpoint(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = server.ListenAndServe()
	}()
}

// observer holds the label-bound children for one variant.
type observer struct {
	ops      prometheus.Counter
	bytes    prometheus.Counter
	duration prometheus.Observer
	errors   prometheus.Counter
	capacity prometheus.Gauge
}

// Observer returns a core.Observer that feeds the metrics for v.
func Observer(v maps.Variant) core.Observer {
	l := v.String()
	return &observer{
		ops:      operationsTotal.WithLabelValues(l),
		bytes:    payloadBytesTotal.WithLabelValues(l),
		duration: iterationSeconds.WithLabelValues(l),
		errors:   trialErrorsTotal.WithLabelValues(l),
		capacity: capacityPerSegment.WithLabelValues(l),
	}
}

func (o *observer) ObserveSetup(t *core.Trial) {
	o.capacity.Set(float64(t.CapacityPerSegment))
}

func (o *observer) ObserveIteration(_ maps.Variant, ops int, checksum int64, d time.Duration) {
	o.ops.Add(float64(ops))
	o.bytes.Add(float64(checksum))
	o.duration.Observe(d.Seconds())
}

func (o *observer) ObserveError(maps.Variant, error) { o.errors.Inc() }
