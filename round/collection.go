// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/luxfi/period/errs"
	"github.com/luxfi/period/payload"
	"github.com/luxfi/period/quorum"
)

// ValueMode controls whether a collection enforces value uniqueness across
// senders, on top of the sender uniqueness every CollectionRound enforces.
type ValueMode int

const (
	// AnyValue allows repeated values across distinct senders; only the
	// sender-uniqueness check applies.
	AnyValue ValueMode = iota
	// DistinctValues additionally rejects a payload whose value has
	// already been submitted by a different sender.
	DistinctValues
)

// collection is the shared CollectionRound accumulator: map[sender]payload,
// with admission rules parameterised by ValueMode. It backs every
// CollectionRound-derived variant in this package; only the "done"
// predicate and what is reported from the accumulated payloads differ
// between variants, which each variant's EndBlock implements for itself.
type collection struct {
	participants map[string]bool
	n            int
	mode         ValueMode

	bySender map[string]payload.Payload
	byValue  map[string]string // value -> sender that first submitted it
}

func newCollection(participants []string, n int, mode ValueMode) *collection {
	set := make(map[string]bool, len(participants))
	for _, p := range participants {
		set[p] = true
	}
	return &collection{
		participants: set,
		n:            n,
		mode:         mode,
		bySender:     make(map[string]payload.Payload),
		byValue:      make(map[string]string),
	}
}

// checkPayload validates that p (carried by sender) may be admitted,
// without mutating the accumulator.
func (c *collection) checkPayload(sender string, p payload.Payload) error {
	if !c.participants[sender] {
		return fmt.Errorf("%w: sender %q is not a participant", errs.ErrTransactionNotValid, sender)
	}
	if _, ok := c.bySender[sender]; ok {
		return fmt.Errorf("%w: sender %q already submitted a payload this round", errs.ErrTransactionNotValid, sender)
	}
	if c.mode == DistinctValues {
		v, err := valuerOf(p)
		if err != nil {
			return err
		}
		if existing, ok := c.byValue[v.Value()]; ok {
			return fmt.Errorf("%w: value already submitted by %q", errs.ErrTransactionNotValid, existing)
		}
	}
	return nil
}

// process folds p into the accumulator. The caller must have already
// called checkPayload successfully; process does not re-validate.
func (c *collection) process(sender string, p payload.Payload) {
	c.bySender[sender] = p
	if c.mode == DistinctValues {
		if v, ok := p.(Valuer); ok {
			c.byValue[v.Value()] = sender
		}
	}
}

func (c *collection) len() int {
	return len(c.bySender)
}

func (c *collection) allCollected() bool {
	return len(c.bySender) == c.n
}

func (c *collection) thresholdReached() bool {
	return len(c.bySender) >= quorum.Threshold(c.n)
}

// valueThresholdReached reports whether the most frequent Valuer value
// among submitted payloads has itself reached quorum.Threshold(c.n) —
// unlike thresholdReached, which only counts total submissions regardless
// of agreement. This is what CollectSameUntilThresholdRound must check:
// a round where every sender has voted but for distinct values has
// len(bySender) == n yet no value anywhere near threshold.
func (c *collection) valueThresholdReached() bool {
	_, ok := quorum.ThresholdReached(c.votes(), c.n)
	return ok
}

// votes returns sender -> canonical value-key for senders whose payload
// implements Valuer, suitable for quorum.ThresholdReached/Mode.
func (c *collection) votes() map[string]string {
	votes := make(map[string]string, len(c.bySender))
	for sender, p := range c.bySender {
		if v, ok := p.(Valuer); ok {
			votes[sender] = v.Value()
		}
	}
	return votes
}

// mostVotedPayload returns the payload whose Valuer.Value() is the most
// frequent among submitted payloads, tie-broken per quorum.Mode, and
// whether any payload has been submitted at all.
func (c *collection) mostVotedPayload() (payload.Payload, bool) {
	votes := c.votes()
	if len(votes) == 0 {
		return nil, false
	}
	value, _ := quorum.Mode(quorum.Counts(votes))

	// Deterministically pick the representative payload: the one from
	// the lexicographically smallest sender among those that hold the
	// winning value.
	var senders []string
	for sender, v := range votes {
		if v == value {
			senders = append(senders, sender)
		}
	}
	sort.Strings(senders)
	return c.bySender[senders[0]], true
}

// boolVotes returns sender -> "true"/"false" for senders whose payload
// implements Voter, suitable for quorum.ThresholdReached/Counts. Unlike
// votes(), which keys off Valuer, this is what VotingRound tallies against.
func (c *collection) boolVotes() map[string]string {
	votes := make(map[string]string, len(c.bySender))
	for sender, p := range c.bySender {
		if v, ok := p.(Voter); ok {
			votes[sender] = strconv.FormatBool(v.Vote())
		}
	}
	return votes
}

func (c *collection) sortedSenders() []string {
	senders := make([]string, 0, len(c.bySender))
	for s := range c.bySender {
		senders = append(senders, s)
	}
	sort.Strings(senders)
	return senders
}
