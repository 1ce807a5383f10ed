// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/period/payload"
)

func TestCollectDifferentUntilAllRound_RequiresEveryParticipant(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewCollectDifferentUntilAllRound("register", "test_value", state, fourParticipantParams(), "DONE")

	senders := []string{"a", "b", "c"}
	for _, s := range senders {
		require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase(s), Value_: s + "-value"})))
		_, ok := r.EndBlock()
		require.False(ok)
	}

	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("d"), Value_: "d-value"})))
	require.True(r.CollectionThresholdReached())

	verdict, ok := r.EndBlock()
	require.True(ok)
	require.Equal(Event("DONE"), verdict.Event)
	require.Len(r.Collected(), 4)
}

func TestCollectDifferentUntilAllRound_RejectsDuplicateValue(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewCollectDifferentUntilAllRound("register", "test_value", state, fourParticipantParams(), "DONE")

	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("a"), Value_: "same"})))
	err := r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("b"), Value_: "same"}))
	require.Error(err)
}
