// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"fmt"

	"github.com/luxfi/period/errs"
	"github.com/luxfi/period/payload"
	"github.com/luxfi/period/txn"
)

// CollectDifferentUntilThresholdRound collects one payload per sender and
// concludes once a Byzantine quorum of senders (not necessarily agreeing
// on value) have contributed. Unlike CollectDifferentUntilAllRound it does
// not require every participant to contribute or values to be distinct,
// and unlike CollectSameUntilThresholdRound it does not require the
// contributed values to agree — sender uniqueness alone gates admission.
type CollectDifferentUntilThresholdRound struct {
	Base
	acc       *collection
	doneEvent Event
}

func NewCollectDifferentUntilThresholdRound(roundID, allowedTxType string, state State, params ConsensusParams, doneEvent Event) *CollectDifferentUntilThresholdRound {
	return &CollectDifferentUntilThresholdRound{
		Base:      NewBase(roundID, allowedTxType, state, params),
		acc:       newCollection(state.SortedParticipants(), params.MaxParticipants, AnyValue),
		doneEvent: doneEvent,
	}
}

func (r *CollectDifferentUntilThresholdRound) CheckTransaction(tx txn.Transaction) error {
	if err := r.CheckAllowedTxType(tx); err != nil {
		return err
	}
	return r.acc.checkPayload(tx.Payload.Sender(), tx.Payload)
}

func (r *CollectDifferentUntilThresholdRound) ProcessTransaction(tx txn.Transaction) error {
	if err := r.CheckAllowedTxType(tx); err != nil {
		return err
	}
	p := tx.Payload
	if err := r.acc.checkPayload(p.Sender(), p); err != nil {
		return fmt.Errorf("%w: processing payload that failed check_payload: %v", errs.ErrABCIAppInternal, err)
	}
	r.acc.process(p.Sender(), p)
	return nil
}

// CollectionThresholdReached reports whether a Byzantine quorum of senders
// have contributed.
func (r *CollectDifferentUntilThresholdRound) CollectionThresholdReached() bool {
	return r.acc.thresholdReached()
}

// Collected returns the accumulated payloads in deterministic sender
// order.
func (r *CollectDifferentUntilThresholdRound) Collected() []payload.Payload {
	senders := r.acc.sortedSenders()
	out := make([]payload.Payload, 0, len(senders))
	for _, s := range senders {
		out = append(out, r.acc.bySender[s])
	}
	return out
}

func (r *CollectDifferentUntilThresholdRound) EndBlock() (Verdict, bool) {
	if !r.acc.thresholdReached() {
		return Verdict{}, false
	}
	next := r.State().Update(map[string]any{"collection_size": r.acc.len()})
	return Verdict{NextState: next, Event: r.doneEvent}, true
}
