// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"fmt"

	"github.com/luxfi/period/errs"
	"github.com/luxfi/period/payload"
	"github.com/luxfi/period/txn"
)

// CollectDifferentUntilAllRound collects one payload per sender, rejecting
// both a second submission from the same sender and a value already
// contributed by a different sender, and concludes only once every
// participant has contributed. It is used for initial registration phases
// where each participant must contribute a distinct value.
type CollectDifferentUntilAllRound struct {
	Base
	acc       *collection
	doneEvent Event
}

func NewCollectDifferentUntilAllRound(roundID, allowedTxType string, state State, params ConsensusParams, doneEvent Event) *CollectDifferentUntilAllRound {
	return &CollectDifferentUntilAllRound{
		Base:      NewBase(roundID, allowedTxType, state, params),
		acc:       newCollection(state.SortedParticipants(), params.MaxParticipants, DistinctValues),
		doneEvent: doneEvent,
	}
}

func (r *CollectDifferentUntilAllRound) CheckTransaction(tx txn.Transaction) error {
	if err := r.CheckAllowedTxType(tx); err != nil {
		return err
	}
	return r.acc.checkPayload(tx.Payload.Sender(), tx.Payload)
}

func (r *CollectDifferentUntilAllRound) ProcessTransaction(tx txn.Transaction) error {
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

// CollectionThresholdReached reports whether every participant has
// contributed.
func (r *CollectDifferentUntilAllRound) CollectionThresholdReached() bool {
	return r.acc.allCollected()
}

// Collected returns the accumulated payloads in deterministic sender
// order.
func (r *CollectDifferentUntilAllRound) Collected() []payload.Payload {
	senders := r.acc.sortedSenders()
	out := make([]payload.Payload, 0, len(senders))
	for _, s := range senders {
		out = append(out, r.acc.bySender[s])
	}
	return out
}

func (r *CollectDifferentUntilAllRound) EndBlock() (Verdict, bool) {
	if !r.acc.allCollected() {
		return Verdict{}, false
	}
	next := r.State().Update(map[string]any{"collection_size": r.acc.len()})
	return Verdict{NextState: next, Event: r.doneEvent}, true
}
