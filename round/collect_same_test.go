// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/period/payload"
)

func fourParticipantParams() ConsensusParams {
	return ConsensusParams{MaxParticipants: 4}
}

func TestCollectSameUntilThresholdRound_HappyPath(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewCollectSameUntilThresholdRound("collect_same", "test_value", state, fourParticipantParams(), "DONE")

	for _, sender := range []string{"a", "b", "c"} {
		_, ok := r.EndBlock()
		require.False(ok)

		p := valuePayload{Base: payload.NewBase(sender), Value_: "x"}
		require.NoError(r.ProcessTransaction(tx(p)))
	}

	require.True(r.ThresholdReached())
	winner, err := r.MostVotedPayload()
	require.NoError(err)
	require.Equal("x", winner.(Valuer).Value())

	verdict, ok := r.EndBlock()
	require.True(ok)
	require.Equal(Event("DONE"), verdict.Event)
	require.Equal("x", verdict.NextState.Attrs["most_voted_value"])
}

func TestCollectSameUntilThresholdRound_FastFailsOnDivergence(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewCollectSameUntilThresholdRound("collect_same", "test_value", state, fourParticipantParams(), "DONE")

	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("a"), Value_: "x"})))
	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("b"), Value_: "y"})))

	// c voting z leaves x, y and z at 1 each with only d left to vote, and
	// d can add at most 1 to any bucket: remaining=1 + largest bucket=1 = 2,
	// below threshold(4)=3.
	err := r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("c"), Value_: "z"}))
	require.Error(err)
}

func TestCollectSameUntilThresholdRound_DoesNotReachThresholdOnSplitVoteWithEnoughSubmissions(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewCollectSameUntilThresholdRound("collect_same", "test_value", state, fourParticipantParams(), "DONE")

	// A votes "x", B votes "y", C votes "x": three payloads submitted, but
	// "x" only has 2 of them — below threshold(4)=3. Still majority
	// possible after C (remaining=1, largest bucket=2, 1+2=3>=3), so none
	// of these are rejected; the round must not claim a verdict anyway.
	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("a"), Value_: "x"})))
	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("b"), Value_: "y"})))
	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("c"), Value_: "x"})))

	require.False(r.ThresholdReached())
	_, ok := r.EndBlock()
	require.False(ok)
	_, err := r.MostVotedPayload()
	require.Error(err)

	// D also votes "x": now "x" has 3, reaching threshold(4)=3.
	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("d"), Value_: "x"})))
	require.True(r.ThresholdReached())
	winner, err := r.MostVotedPayload()
	require.NoError(err)
	require.Equal("x", winner.(Valuer).Value())
}

func TestCollectSameUntilThresholdRound_RejectsDuplicateSender(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewCollectSameUntilThresholdRound("collect_same", "test_value", state, fourParticipantParams(), "DONE")

	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("a"), Value_: "x"})))
	err := r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("a"), Value_: "x"}))
	require.Error(err)
}

func TestCollectSameUntilThresholdRound_RejectsWrongTxType(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewCollectSameUntilThresholdRound("collect_same", "test_value", state, fourParticipantParams(), "DONE")

	err := r.CheckTransaction(tx(votePayload{Base: payload.NewBase("a"), Vote_: true}))
	require.Error(err)
}
