// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"fmt"

	"github.com/luxfi/period/errs"
	"github.com/luxfi/period/payload"
	"github.com/luxfi/period/txn"
)

// keeperAttr is the State.Attrs key under which the designated keeper's
// address is stored, by convention shared with whatever upstream round
// set it.
const keeperAttr = "most_voted_keeper_address"

// OnlyKeeperSendsRound accepts exactly one payload, from the single
// participant the replicated state designates as keeper.
type OnlyKeeperSendsRound struct {
	Base
	doneEvent Event
	payload   payload.Payload
	sent      bool
}

func NewOnlyKeeperSendsRound(roundID, allowedTxType string, state State, params ConsensusParams, doneEvent Event) *OnlyKeeperSendsRound {
	return &OnlyKeeperSendsRound{
		Base:      NewBase(roundID, allowedTxType, state, params),
		doneEvent: doneEvent,
	}
}

func (r *OnlyKeeperSendsRound) checkPayload(p payload.Payload) error {
	keeper, ok := r.State().StringAttr(keeperAttr)
	if !ok {
		return fmt.Errorf("%w: no keeper designated in state", errs.ErrABCIAppInternal)
	}
	if p.Sender() != keeper {
		return fmt.Errorf("%w: sender %q is not the designated keeper %q", errs.ErrTransactionNotValid, p.Sender(), keeper)
	}
	if r.sent {
		return fmt.Errorf("%w: keeper has already sent a payload this round", errs.ErrTransactionNotValid)
	}
	return nil
}

func (r *OnlyKeeperSendsRound) CheckTransaction(tx txn.Transaction) error {
	if err := r.CheckAllowedTxType(tx); err != nil {
		return err
	}
	return r.checkPayload(tx.Payload)
}

func (r *OnlyKeeperSendsRound) ProcessTransaction(tx txn.Transaction) error {
	if err := r.CheckAllowedTxType(tx); err != nil {
		return err
	}
	if err := r.checkPayload(tx.Payload); err != nil {
		return fmt.Errorf("%w: processing payload that failed check_payload: %v", errs.ErrABCIAppInternal, err)
	}
	r.payload = tx.Payload
	r.sent = true
	return nil
}

// HasKeeperSentPayload reports whether the keeper's payload has been
// received.
func (r *OnlyKeeperSendsRound) HasKeeperSentPayload() bool {
	return r.sent
}

func (r *OnlyKeeperSendsRound) EndBlock() (Verdict, bool) {
	if !r.sent {
		return Verdict{}, false
	}
	next := r.State().Update(map[string]any{"keeper_payload_id": r.payload.ID()})
	return Verdict{NextState: next, Event: r.doneEvent}, true
}
