// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package round implements the round abstraction family: the common
// AbstractRound contract plus the CollectionRound-derived variants
// (CollectDifferentUntilAll, CollectSameUntilThreshold,
// CollectDifferentUntilThreshold, Voting) and the single-payload
// OnlyKeeperSends round.
//
// A round may be read and mutated only between one consensus block's
// begin_block and end_block; nothing here is safe for concurrent use, by
// design: a round is driven single-threaded, entirely by the period
// package's engine callbacks.
package round

import (
	"fmt"

	"github.com/luxfi/period/errs"
	"github.com/luxfi/period/txn"
)

// Event drives the AbciApp transition table. Concrete applications define
// their own event vocabularies (DONE, NEGATIVE, NO_MAJORITY, TIMEOUT, ...);
// Event is just the string they're spelled with.
type Event string

// Verdict is what a round hands back to end_block when it has concluded:
// the next replicated state and the event that selects the next round in
// the transition table.
type Verdict struct {
	NextState State
	Event     Event
}

// Round is the contract every round variant satisfies.
type Round interface {
	// RoundID is the round's stable, human-readable identifier.
	RoundID() string

	// AllowedTxType is the sole payload transaction_type this round
	// accepts.
	AllowedTxType() string

	// CheckTransaction validates tx without mutating the round. It is
	// safe to call repeatedly within the same block.
	CheckTransaction(tx txn.Transaction) error

	// ProcessTransaction validates (as CheckTransaction) and, on
	// success, folds tx into the round's accumulator. Calling it with a
	// transaction that would fail CheckTransaction is a programmer
	// error.
	ProcessTransaction(tx txn.Transaction) error

	// EndBlock returns a Verdict once the round has concluded, or
	// ok=false if more transactions are still needed.
	EndBlock() (verdict Verdict, ok bool)
}

// Valuer is implemented by payload variants whose domain value (distinct
// from sender/id identity) matters to the round collecting them:
// CollectDifferentUntilAllRound and CollectSameUntilThresholdRound compare
// payloads by this value rather than by their full encoded bytes, which
// always differ at least in sender and id.
type Valuer interface {
	Value() string
}

// Voter is implemented by payload variants carried by a VotingRound.
type Voter interface {
	Vote() bool
}

// Base holds the fields and admission logic common to every round: the
// replicated state and consensus params it was constructed with, and the
// check_allowed_tx_type gate every concrete round runs before its own
// check_payload/process_payload hooks.
type Base struct {
	state         State
	params        ConsensusParams
	roundID       string
	allowedTxType string
}

// NewBase constructs the common round fields.
func NewBase(roundID, allowedTxType string, state State, params ConsensusParams) Base {
	return Base{
		state:         state,
		params:        params,
		roundID:       roundID,
		allowedTxType: allowedTxType,
	}
}

func (b Base) RoundID() string          { return b.roundID }
func (b Base) AllowedTxType() string    { return b.allowedTxType }
func (b Base) State() State             { return b.state }
func (b Base) Params() ConsensusParams  { return b.params }

// CheckAllowedTxType rejects tx if its payload's transaction_type does not
// match this round's AllowedTxType.
func (b Base) CheckAllowedTxType(tx txn.Transaction) error {
	got := tx.Payload.TransactionType()
	if got != b.allowedTxType {
		return fmt.Errorf("%w: round %q only accepts %q, got %q",
			errs.ErrTxTypeNotRecognized, b.roundID, b.allowedTxType, got)
	}
	return nil
}

func valuerOf(p interface{ TransactionType() string }) (Valuer, error) {
	v, ok := p.(Valuer)
	if !ok {
		return nil, fmt.Errorf("%w: payload %q does not implement round.Valuer", errs.ErrABCIAppInternal, p.TransactionType())
	}
	return v, nil
}

func voterOf(p interface{ TransactionType() string }) (Voter, error) {
	v, ok := p.(Voter)
	if !ok {
		return nil, fmt.Errorf("%w: payload %q does not implement round.Voter", errs.ErrABCIAppInternal, p.TransactionType())
	}
	return v, nil
}
