// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"sort"

	"github.com/luxfi/period/internal/set"
	"github.com/luxfi/period/quorum"
)

// State is the immutable value object representing the replicated
// application state at the start of the current round. Update always
// returns a new value; State is never mutated in place, which is what
// lets the same State be shared, unguarded, across a round's lifetime.
//
// Concrete application state grows additional attributes the core has no
// business knowing about (a designated keeper address, accumulated
// results, ...). Rather than model those as a Python-style dynamic
// **kwargs bag or force every deployment through a hand-written sum type,
// Attrs is a narrow, explicitly-typed escape hatch: round variants that
// need an attribute (OnlyKeeperSendsRound needs "most_voted_keeper_address") read it back out
// by name and fail closed if it is missing or the wrong type.
type State struct {
	Participants set.Set[string]
	Attrs        map[string]any
}

// NewState returns a State for the given participants with no extra
// attributes set.
func NewState(participants set.Set[string]) State {
	return State{
		Participants: participants,
		Attrs:        map[string]any{},
	}
}

// SortedParticipants returns the participant addresses in sorted order,
// the deterministic view every iteration over participants must use.
func (s State) SortedParticipants() []string {
	list := s.Participants.List()
	sort.Strings(list)
	return list
}

// Update returns a new State with the named attributes shadowed; s itself
// is never mutated. Participants, if present in changes under the key
// "participants", replaces the participant set; every other key is merged
// into Attrs.
func (s State) Update(changes map[string]any) State {
	next := State{
		Participants: s.Participants,
		Attrs:        make(map[string]any, len(s.Attrs)+len(changes)),
	}
	for k, v := range s.Attrs {
		next.Attrs[k] = v
	}
	for k, v := range changes {
		if k == "participants" {
			if p, ok := v.(set.Set[string]); ok {
				next.Participants = p
				continue
			}
		}
		next.Attrs[k] = v
	}
	return next
}

// Attr returns the named attribute and whether it was present.
func (s State) Attr(key string) (any, bool) {
	v, ok := s.Attrs[key]
	return v, ok
}

// StringAttr returns the named attribute as a string, or ("", false) if
// absent or not a string.
func (s State) StringAttr(key string) (string, bool) {
	v, ok := s.Attrs[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// ConsensusParams derives the Byzantine quorum size from the maximum
// number of participants the period was configured for.
type ConsensusParams struct {
	MaxParticipants int
}

// ConsensusThreshold returns floor(2n/3) + 1 for n = MaxParticipants.
func (p ConsensusParams) ConsensusThreshold() int {
	return quorum.Threshold(p.MaxParticipants)
}
