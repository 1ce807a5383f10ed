// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics exposes Prometheus instrumentation for a running period:
// rounds completed, blocks committed, and transactions rejected by error
// taxonomy kind.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a Period reports through.
type Metrics struct {
	roundsCompleted      *prometheus.CounterVec
	blocksCommitted      prometheus.Counter
	transactionsRejected *prometheus.CounterVec
}

// New constructs Metrics and registers its collectors with registerer.
func New(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		roundsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "period_rounds_completed_total",
			Help: "Number of rounds that produced a verdict, by round id.",
		}, []string{"round_id"}),
		blocksCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "period_blocks_committed_total",
			Help: "Number of blocks committed to the blockchain.",
		}),
		transactionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "period_transactions_rejected_total",
			Help: "Number of transactions rejected, by error taxonomy kind.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.roundsCompleted, m.blocksCommitted, m.transactionsRejected} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewNop returns Metrics backed by an unregistered private registry, for
// callers (tests, and period.New when handed nil metrics) that don't want
// to wire up a real Prometheus endpoint.
func NewNop() *Metrics {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		// prometheus.NewRegistry() is always empty; registering fresh
		// collectors into it cannot fail.
		panic(err)
	}
	return m
}

// RoundCompleted increments the completed-round counter for roundID.
func (m *Metrics) RoundCompleted(roundID string) {
	m.roundsCompleted.WithLabelValues(roundID).Inc()
}

// BlockCommitted increments the committed-block counter.
func (m *Metrics) BlockCommitted() {
	m.blocksCommitted.Inc()
}

// TransactionRejected increments the rejected-transaction counter for the
// given error taxonomy kind.
func (m *Metrics) TransactionRejected(kind string) {
	if kind == "" {
		return
	}
	m.transactionsRejected.WithLabelValues(kind).Inc()
}
