// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/period/payload"
)

var errVotingNoMajority = errors.New("no majority possible")

func TestVotingRound_PositivePath(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewVotingRound("vote", "test_vote", state, fourParticipantParams(), "POSITIVE", "NEGATIVE", errVotingNoMajority)

	for _, sender := range []string{"a", "b", "c"} {
		require.NoError(r.ProcessTransaction(tx(votePayload{Base: payload.NewBase(sender), Vote_: true})))
	}

	require.True(r.PositiveVoteThresholdReached())
	require.False(r.NegativeVoteThresholdReached())

	verdict, ok := r.EndBlock()
	require.True(ok)
	require.Equal(Event("POSITIVE"), verdict.Event)
}

func TestVotingRound_NegativePath(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewVotingRound("vote", "test_vote", state, fourParticipantParams(), "POSITIVE", "NEGATIVE", errVotingNoMajority)

	for _, sender := range []string{"a", "b", "c"} {
		require.NoError(r.ProcessTransaction(tx(votePayload{Base: payload.NewBase(sender), Vote_: false})))
	}

	require.True(r.NegativeVoteThresholdReached())
	verdict, ok := r.EndBlock()
	require.True(ok)
	require.Equal(Event("NEGATIVE"), verdict.Event)
}

func TestVotingRound_FastFailsWhenNeitherOutcomeCanReachQuorum(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewVotingRound("vote", "test_vote", state, fourParticipantParams(), "POSITIVE", "NEGATIVE", errVotingNoMajority)

	require.NoError(r.ProcessTransaction(tx(votePayload{Base: payload.NewBase("a"), Vote_: true})))
	require.NoError(r.ProcessTransaction(tx(votePayload{Base: payload.NewBase("b"), Vote_: false})))

	// c votes true: true=2, false=1, one voter (d) left. Worst case true
	// maxes at 3 (still possible) so this one must still succeed.
	require.NoError(r.ProcessTransaction(tx(votePayload{Base: payload.NewBase("c"), Vote_: true})))

	_, ok := r.EndBlock()
	require.False(ok)

	// d votes false: true=2, false=2, nobody left, so neither outcome can
	// reach threshold(4)=3 and the vote is rejected.
	err := r.ProcessTransaction(tx(votePayload{Base: payload.NewBase("d"), Vote_: false}))
	require.ErrorIs(err, errVotingNoMajority)
}
