package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cyclesTotal      prometheus.Counter
	pairsScanned     prometheus.Counter
	signalsPublished *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	lastPrice        *prometheus.GaugeVec
	cycleDuration    prometheus.Histogram
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cyclesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pumpscan_scan_cycles_total",
				Help: "Total number of completed scan cycles",
			},
		),
		pairsScanned: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pumpscan_pairs_scanned_total",
				Help: "Total number of per-pair evaluations",
			},
		),
		signalsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pumpscan_signals_published_total",
				Help: "Total number of published signals",
			},
			[]string{"mode"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pumpscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pumpscan_last_price",
				Help: "Last observed price for a pair",
			},
			[]string{"pair"},
		),
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pumpscan_scan_cycle_duration_seconds",
				Help:    "Duration of a full scan cycle in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pumpscan_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCycle records a completed scan cycle and its duration.
func (r *Recorder) RecordCycle(seconds float64) {
	r.cyclesTotal.Inc()
	r.cycleDuration.Observe(seconds)
}

// RecordPairScanned counts one per-pair evaluation.
func (r *Recorder) RecordPairScanned() {
	r.pairsScanned.Inc()
}

// RecordSignal counts a published signal by detector mode.
func (r *Recorder) RecordSignal(mode string) {
	r.signalsPublished.WithLabelValues(mode).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last observed price for a pair.
func (r *Recorder) RecordLastPrice(pair string, price float64) {
	r.lastPrice.WithLabelValues(pair).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
