// Package metrics registers prometheus instrumentation for the statement
// ingestion pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "statement_engine_"

// Parse result labels.
const (
	ResultSuccess         = "success"
	ResultInvalidInput    = "invalid_input"
	ResultExtractionError = "extraction_error"
	ResultUnknownBank     = "unknown_bank"
	ResultNotDetected     = "bank_not_detected"
	ResultParseError      = "parse_error"
)

var (
	registerOnce sync.Once

	parsesTotal   *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	lineItems     prometheus.Histogram
)

// Init registers the collectors on the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		parsesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "parses_total",
				Help: "Statement parse attempts by bank and result",
			},
			[]string{"bank", "result"},
		)
		parseDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "parse_duration_seconds",
				Help:    "Statement parse latency by bank",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"bank"},
		)
		lineItems = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "line_items_per_statement",
				Help:    "Line items extracted per successfully parsed statement",
				Buckets: []float64{0, 5, 10, 25, 50, 100, 250},
			},
		)

		prometheus.MustRegister(parsesTotal, parseDuration, lineItems)
	})
}

// ObserveParse records one parse attempt. No-op until Init has run.
func ObserveParse(bank, result string, elapsed time.Duration) {
	if parsesTotal == nil {
		return
	}
	if bank == "" {
		bank = "unknown"
	}
	parsesTotal.WithLabelValues(bank, result).Inc()
	parseDuration.WithLabelValues(bank).Observe(elapsed.Seconds())
}

// ObserveLineItems records the line-item count of a parsed statement.
func ObserveLineItems(count int) {
	if lineItems == nil {
		return
	}
	lineItems.Observe(float64(count))
}
