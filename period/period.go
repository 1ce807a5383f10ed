// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package period implements the engine-facing driver: it translates
// the consensus engine's begin_block/deliver_tx/end_block/commit callbacks
// into operations on an AbciApp and an append-only Blockchain.
package period

import (
	"errors"
	"fmt"
	"time"

	log "github.com/luxfi/log"

	"github.com/luxfi/period/abciapp"
	"github.com/luxfi/period/block"
	"github.com/luxfi/period/errs"
	"github.com/luxfi/period/metrics"
	"github.com/luxfi/period/txn"
)

// Period ties the round FSM (AbciApp) to the application's block log: it
// owns the AbciApp, the Blockchain, and the BlockBuilder used to assemble
// each in-flight block.
type Period struct {
	app     *abciapp.AbciApp
	chain   *block.Blockchain
	builder *block.Builder
	metrics *metrics.Metrics
	log     log.Logger

	blockInProgress bool
}

// New constructs a Period around app, with a fresh blockchain and builder.
// metricsCollector and logger may both be nil.
func New(app *abciapp.AbciApp, metricsCollector *metrics.Metrics, logger log.Logger) *Period {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}
	return &Period{
		app:     app,
		chain:   block.NewBlockchain(),
		builder: block.NewBuilder(),
		metrics: metricsCollector,
		log:     logger,
	}
}

// Setup initialises the underlying AbciApp's initial round.
func (p *Period) Setup() error {
	return p.app.Setup()
}

// BeginBlock resets the builder, stamps it with header, and advances the
// AbciApp's block-time clock. It fails if the period has already finished
// or a block is already in progress (BeginBlock called twice without an
// intervening Commit).
func (p *Period) BeginBlock(header block.Header) error {
	if p.app.IsFinished() {
		return fmt.Errorf("%w: begin_block called after period finished", errs.ErrABCIAppInternal)
	}
	if p.blockInProgress {
		return fmt.Errorf("%w: begin_block called with a block already in progress", errs.ErrABCIAppInternal)
	}
	p.builder.Reset()
	if err := p.builder.SetHeader(header); err != nil {
		return err
	}
	p.blockInProgress = true
	p.app.UpdateTime(header.Timestamp)
	return nil
}

// DeliverTx checks and processes tx against the current round, appending it
// to the in-progress block on success. A failure is returned to the caller
// unmutated so the engine can flag the transaction as invalid; the round's
// state is not touched on failure.
func (p *Period) DeliverTx(tx txn.Transaction) error {
	if err := p.app.CheckTransaction(tx); err != nil {
		p.metrics.TransactionRejected(errorKind(err))
		return err
	}
	if err := p.app.ProcessTransaction(tx); err != nil {
		p.metrics.TransactionRejected(errorKind(err))
		return err
	}
	p.builder.AddTransaction(tx)
	return nil
}

// EndBlock asks the current round for a verdict and, if produced, applies
// the corresponding transition. It is a no-op if the round has not yet
// concluded.
func (p *Period) EndBlock() {
	before := p.app.CurrentRoundID()
	p.app.EndBlock()
	after := p.app.CurrentRoundID()
	if before != after {
		p.metrics.RoundCompleted(before)
		p.log.Info("period: round transitioned", "from", before, "to", after)
	}
}

// Commit seals the builder's contents into a Block, appends it to the
// Blockchain, and resets the builder for the next block.
func (p *Period) Commit() (block.Block, error) {
	b, err := p.builder.GetBlock()
	if err != nil {
		return block.Block{}, err
	}
	if err := p.chain.AddBlock(b); err != nil {
		return block.Block{}, err
	}
	p.builder.Reset()
	p.blockInProgress = false
	p.metrics.BlockCommitted()
	return b, nil
}

// Blockchain returns the underlying append-only block log.
func (p *Period) Blockchain() *block.Blockchain { return p.chain }

// AbciApp returns the underlying round FSM.
func (p *Period) AbciApp() *abciapp.AbciApp { return p.app }

// IsFinished reports whether the underlying period has reached a final
// round.
func (p *Period) IsFinished() bool { return p.app.IsFinished() }

// Snapshot is a read-only, JSON-encodable view of a Period's progress,
// suitable for a health or debug endpoint.
type Snapshot struct {
	Height          uint64    `json:"height"`
	CurrentRoundID  string    `json:"current_round_id"`
	LastRoundID     string    `json:"last_round_id"`
	LastTimestamp   time.Time `json:"last_timestamp"`
	IsFinished      bool      `json:"is_finished"`
	BlockInProgress bool      `json:"block_in_progress"`
}

// Snapshot captures the Period's current progress.
func (p *Period) Snapshot() Snapshot {
	return Snapshot{
		Height:          p.chain.Height(),
		CurrentRoundID:  p.app.CurrentRoundID(),
		LastRoundID:     p.app.LastRoundID(),
		LastTimestamp:   p.app.LastTimestamp(),
		IsFinished:      p.app.IsFinished(),
		BlockInProgress: p.blockInProgress,
	}
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errs.ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, errs.ErrTxTypeNotRecognized):
		return "tx_type_not_recognized"
	case errors.Is(err, errs.ErrTransactionNotValid):
		return "transaction_not_valid"
	default:
		return "other"
	}
}
