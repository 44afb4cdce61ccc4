package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsTotal    *prometheus.CounterVec
	deliveriesTotal *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	cycleDuration   prometheus.Histogram
	quoteSource     *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocktiming_signals_total",
				Help: "Total number of signals generated",
			},
			[]string{"symbol", "action"},
		),
		deliveriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocktiming_deliveries_total",
				Help: "Total number of webhook delivery attempts",
			},
			[]string{"endpoint", "result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocktiming_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stocktiming_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stocktiming_cycle_duration_seconds",
				Help:    "Duration of full analyze cycles in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		quoteSource: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocktiming_quote_fetches_total",
				Help: "Quote fetches by source (live or synthetic)",
			},
			[]string{"source"},
		),
	}
}

// RecordSignal records a generated signal.
func (r *Recorder) RecordSignal(symbol, action string) {
	r.signalsTotal.WithLabelValues(symbol, action).Inc()
}

// RecordDelivery records a webhook delivery attempt.
func (r *Recorder) RecordDelivery(endpoint string, success bool) {
	result := "ok"
	if !success {
		result = "error"
	}
	r.deliveriesTotal.WithLabelValues(endpoint, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordCycleDuration records how long an analyze cycle took.
func (r *Recorder) RecordCycleDuration(seconds float64) {
	r.cycleDuration.Observe(seconds)
}

// RecordQuoteSource records which source served a quote.
func (r *Recorder) RecordQuoteSource(source string) {
	r.quoteSource.WithLabelValues(source).Inc()
}
