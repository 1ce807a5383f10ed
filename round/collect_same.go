// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"fmt"

	"github.com/luxfi/period/errs"
	"github.com/luxfi/period/payload"
	"github.com/luxfi/period/quorum"
	"github.com/luxfi/period/txn"
)

// CollectSameUntilThresholdRound collects one payload per sender and
// concludes once the most frequent value reaches the Byzantine threshold.
// Every admitted payload is checked against the hypothetical
// post-admission tally via quorum.CheckMajorityPossibleWithNewVoter, so a
// round that can no longer possibly reach a quorum aborts as soon as that
// becomes true rather than waiting for every sender to vote.
type CollectSameUntilThresholdRound struct {
	Base
	acc       *collection
	doneEvent Event
}

// NewCollectSameUntilThresholdRound constructs the round. doneEvent is the
// Event emitted when the threshold is reached.
func NewCollectSameUntilThresholdRound(roundID, allowedTxType string, state State, params ConsensusParams, doneEvent Event) *CollectSameUntilThresholdRound {
	return &CollectSameUntilThresholdRound{
		Base:      NewBase(roundID, allowedTxType, state, params),
		acc:       newCollection(state.SortedParticipants(), params.MaxParticipants, AnyValue),
		doneEvent: doneEvent,
	}
}

func (r *CollectSameUntilThresholdRound) CheckTransaction(tx txn.Transaction) error {
	if err := r.CheckAllowedTxType(tx); err != nil {
		return err
	}
	return r.checkPayload(tx.Payload)
}

func (r *CollectSameUntilThresholdRound) checkPayload(p payload.Payload) error {
	return r.acc.checkPayload(p.Sender(), p)
}

func (r *CollectSameUntilThresholdRound) ProcessTransaction(tx txn.Transaction) error {
	if err := r.CheckAllowedTxType(tx); err != nil {
		return err
	}
	p := tx.Payload
	v, err := valuerOf(p)
	if err != nil {
		return err
	}

	if err := quorum.CheckMajorityPossibleWithNewVoter(
		r.acc.votes(), p.Sender(), v.Value(), r.Params().MaxParticipants, errs.ErrABCIAppInternal,
	); err != nil {
		return err
	}
	if err := r.checkPayload(p); err != nil {
		return fmt.Errorf("%w: processing payload that failed check_payload: %v", errs.ErrABCIAppInternal, err)
	}
	r.acc.process(p.Sender(), p)
	return nil
}

// ThresholdReached reports whether the most frequent value has reached
// quorum.
func (r *CollectSameUntilThresholdRound) ThresholdReached() bool {
	return r.acc.valueThresholdReached()
}

// MostVotedPayload returns the most frequent payload. It is a programmer
// error to call this before ThresholdReached is true.
func (r *CollectSameUntilThresholdRound) MostVotedPayload() (payload.Payload, error) {
	if !r.acc.valueThresholdReached() {
		return nil, fmt.Errorf("%w: most_voted_payload called before threshold reached", errs.ErrABCIAppInternal)
	}
	p, _ := r.acc.mostVotedPayload()
	return p, nil
}

func (r *CollectSameUntilThresholdRound) EndBlock() (Verdict, bool) {
	if !r.acc.valueThresholdReached() {
		return Verdict{}, false
	}
	winner, _ := r.acc.mostVotedPayload()
	value := winner.(Valuer).Value()
	next := r.State().Update(map[string]any{"most_voted_value": value})
	return Verdict{NextState: next, Event: r.doneEvent}, true
}
