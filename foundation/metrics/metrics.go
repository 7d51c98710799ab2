// Package metrics maintains the prometheus collectors that describe the work
// performed against a chain.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "hashledger"

// Metrics holds the set of collectors registered in its own registry.
type Metrics struct {
	registry *prometheus.Registry

	blocksMined    prometheus.Counter
	hashAttempts   prometheus.Counter
	miningDuration prometheus.Histogram
	validations    *prometheus.CounterVec
	tampers        prometheus.Counter
	chainLength    prometheus.Gauge
}

// New constructs the collectors and registers them.
func New() *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),

		blocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_mined_total",
			Help:      "Number of blocks sealed by proof of work.",
		}),
		hashAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hash_attempts_total",
			Help:      "Number of hashes computed while mining.",
		}),
		miningDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mining_duration_seconds",
			Help:      "Time taken to seal a block.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Number of chain validations by result.",
		}, []string{"result"}),
		tampers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tampers_total",
			Help:      "Number of blocks rewritten by tampering.",
		}),
		chainLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chain_length",
			Help:      "Number of blocks in the chain.",
		}),
	}

	m.registry.MustRegister(
		m.blocksMined,
		m.hashAttempts,
		m.miningDuration,
		m.validations,
		m.tampers,
		m.chainLength,
	)

	return &m
}

// Mined records a sealed block. Mining starts the nonce at zero and
// increments it once per attempt, so the nonce is the attempt count.
func (m *Metrics) Mined(nonce uint64, took time.Duration, length int) {
	m.blocksMined.Inc()
	m.hashAttempts.Add(float64(nonce))
	m.miningDuration.Observe(took.Seconds())
	m.chainLength.Set(float64(length))
}

// Validated records the result of a validation. The result is "valid" or the
// name of the finding.
func (m *Metrics) Validated(result string) {
	m.validations.WithLabelValues(result).Inc()
}

// Tampered records a tamper operation.
func (m *Metrics) Tampered() {
	m.tampers.Inc()
}

// Length records the current number of blocks.
func (m *Metrics) Length(length int) {
	m.chainLength.Set(float64(length))
}

// Write writes every metric in the prometheus text format.
func (m *Metrics) Write(w io.Writer) error {
	mfs, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}

	return nil
}
