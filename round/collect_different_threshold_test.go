// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/period/payload"
)

func TestCollectDifferentUntilThresholdRound_ConcludesOnQuorumWithoutAll(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewCollectDifferentUntilThresholdRound("collect_diff", "test_value", state, fourParticipantParams(), "DONE")

	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("a"), Value_: "a-value"})))
	_, ok := r.EndBlock()
	require.False(ok)

	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("b"), Value_: "b-value"})))
	_, ok = r.EndBlock()
	require.False(ok)

	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("c"), Value_: "c-value"})))
	require.True(r.CollectionThresholdReached())

	verdict, ok := r.EndBlock()
	require.True(ok)
	require.Equal(Event("DONE"), verdict.Event)
	// d never contributed; quorum(4)=3 is still satisfied.
	require.Len(r.Collected(), 3)
}

func TestCollectDifferentUntilThresholdRound_AllowsRepeatedValues(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewCollectDifferentUntilThresholdRound("collect_diff", "test_value", state, fourParticipantParams(), "DONE")

	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("a"), Value_: "same"})))
	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("b"), Value_: "same"})))
}
