// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"fmt"
	"strconv"

	"github.com/luxfi/period/errs"
	"github.com/luxfi/period/quorum"
	"github.com/luxfi/period/txn"
)

// VotingRound collects one boolean vote per sender and concludes once
// either the "true" or "false" bucket reaches the Byzantine threshold.
// Each admitted vote is checked against the hypothetical post-admission
// tally for both possible outcomes via
// quorum.CheckMajorityPossibleWithNewVoter, so the round fast-fails as
// soon as neither outcome can still reach quorum.
type VotingRound struct {
	Base
	acc           *collection
	positiveEvent Event
	negativeEvent Event
	errNoMajority error
}

// NewVotingRound constructs the round. positiveEvent/negativeEvent are
// emitted when true/false votes reach threshold respectively.
// errNoMajority is returned from ProcessTransaction once neither outcome
// can still reach quorum.
func NewVotingRound(roundID, allowedTxType string, state State, params ConsensusParams, positiveEvent, negativeEvent Event, errNoMajority error) *VotingRound {
	return &VotingRound{
		Base:          NewBase(roundID, allowedTxType, state, params),
		acc:           newCollection(state.SortedParticipants(), params.MaxParticipants, AnyValue),
		positiveEvent: positiveEvent,
		negativeEvent: negativeEvent,
		errNoMajority: errNoMajority,
	}
}

func (r *VotingRound) CheckTransaction(tx txn.Transaction) error {
	if err := r.CheckAllowedTxType(tx); err != nil {
		return err
	}
	return r.acc.checkPayload(tx.Payload.Sender(), tx.Payload)
}

func (r *VotingRound) ProcessTransaction(tx txn.Transaction) error {
	if err := r.CheckAllowedTxType(tx); err != nil {
		return err
	}
	p := tx.Payload
	voter, err := voterOf(p)
	if err != nil {
		return err
	}
	vote := strconv.FormatBool(voter.Vote())

	n := r.Params().MaxParticipants
	err = r.errNoMajority
	if err == nil {
		err = errs.ErrABCIAppInternal
	}
	if checkErr := quorum.CheckMajorityPossibleWithNewVoter(r.acc.boolVotes(), p.Sender(), vote, n, err); checkErr != nil {
		return checkErr
	}

	if checkErr := r.acc.checkPayload(p.Sender(), p); checkErr != nil {
		return fmt.Errorf("%w: processing payload that failed check_payload: %v", errs.ErrABCIAppInternal, checkErr)
	}
	r.acc.process(p.Sender(), p)
	return nil
}

// PositiveVoteThresholdReached reports whether true votes have reached
// quorum.
func (r *VotingRound) PositiveVoteThresholdReached() bool {
	count := quorum.Counts(r.acc.boolVotes())
	return count["true"] >= quorum.Threshold(r.Params().MaxParticipants)
}

// NegativeVoteThresholdReached reports whether false votes have reached
// quorum.
func (r *VotingRound) NegativeVoteThresholdReached() bool {
	count := quorum.Counts(r.acc.boolVotes())
	return count["false"] >= quorum.Threshold(r.Params().MaxParticipants)
}

func (r *VotingRound) EndBlock() (Verdict, bool) {
	next := r.State()
	switch {
	case r.PositiveVoteThresholdReached():
		return Verdict{NextState: next, Event: r.positiveEvent}, true
	case r.NegativeVoteThresholdReached():
		return Verdict{NextState: next, Event: r.negativeEvent}, true
	default:
		return Verdict{}, false
	}
}
