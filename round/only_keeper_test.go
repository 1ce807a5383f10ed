// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/period/payload"
)

func TestOnlyKeeperSendsRound_AcceptsDesignatedKeeper(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d").Update(map[string]any{keeperAttr: "b"})
	r := NewOnlyKeeperSendsRound("keeper", "test_value", state, fourParticipantParams(), "DONE")

	require.False(r.HasKeeperSentPayload())
	_, ok := r.EndBlock()
	require.False(ok)

	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("b"), Value_: "b-result"})))
	require.True(r.HasKeeperSentPayload())

	verdict, ok := r.EndBlock()
	require.True(ok)
	require.Equal(Event("DONE"), verdict.Event)
}

func TestOnlyKeeperSendsRound_RejectsNonKeeper(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d").Update(map[string]any{keeperAttr: "b"})
	r := NewOnlyKeeperSendsRound("keeper", "test_value", state, fourParticipantParams(), "DONE")

	err := r.CheckTransaction(tx(valuePayload{Base: payload.NewBase("a"), Value_: "a-result"}))
	require.Error(err)
}

func TestOnlyKeeperSendsRound_RejectsSecondSend(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d").Update(map[string]any{keeperAttr: "b"})
	r := NewOnlyKeeperSendsRound("keeper", "test_value", state, fourParticipantParams(), "DONE")

	require.NoError(r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("b"), Value_: "first"})))
	err := r.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("b"), Value_: "second"}))
	require.Error(err)
}

func TestOnlyKeeperSendsRound_RejectsWithoutDesignatedKeeper(t *testing.T) {
	require := require.New(t)
	state := newState("a", "b", "c", "d")
	r := NewOnlyKeeperSendsRound("keeper", "test_value", state, fourParticipantParams(), "DONE")

	err := r.CheckTransaction(tx(valuePayload{Base: payload.NewBase("a"), Value_: "a-result"}))
	require.Error(err)
}
