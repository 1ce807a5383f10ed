// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package abciapp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/period/internal/set"
	"github.com/luxfi/period/payload"
	"github.com/luxfi/period/round"
	"github.com/luxfi/period/txn"
)

type valuePayload struct {
	payload.Base
	Value_ string
}

func (valuePayload) TransactionType() string { return "test_value" }
func (p valuePayload) Value() string         { return p.Value_ }

func newTestAbciApp(t *testing.T) *AbciApp {
	t.Helper()
	state := round.NewState(set.Of("a", "b", "c", "d"))
	params := round.ConsensusParams{MaxParticipants: 4}

	registry := round.NewRegistry()
	registry.Register("R1", func(state round.State, params round.ConsensusParams) round.Round {
		return round.NewCollectSameUntilThresholdRound("R1", "test_value", state, params, "DONE")
	})
	registry.Register("R2", func(state round.State, params round.ConsensusParams) round.Round {
		return round.NewCollectSameUntilThresholdRound("R2", "test_value", state, params, "DONE")
	})

	cfg := Config{
		Registry:       registry,
		InitialRoundID: "R1",
		Transitions: []transitionRow{
			Transition("R1", "DONE", "R2"),
			Transition("R2", "DONE", "FINAL"),
		},
		EventToTimeout: map[round.Event]time.Duration{
			"DONE": 30 * time.Second,
		},
		FinalStates:     map[string]bool{"FINAL": true},
		ConsensusParams: params,
	}

	app := New(cfg, state, nil)
	require.NoError(t, app.Setup())
	return app
}

func tx(p payload.Payload) txn.Transaction {
	return txn.Transaction{Payload: p, Signature: "unchecked"}
}

func TestAbciApp_SwapsRoundsOnVerdict(t *testing.T) {
	require := require.New(t)
	app := newTestAbciApp(t)
	require.Equal("R1", app.CurrentRoundID())

	for _, sender := range []string{"a", "b", "c"} {
		require.NoError(app.ProcessTransaction(tx(valuePayload{Base: payload.NewBase(sender), Value_: "x"})))
	}
	app.EndBlock()

	require.Equal("R2", app.CurrentRoundID())
	require.False(app.IsFinished())
}

func TestAbciApp_ReachesFinalState(t *testing.T) {
	require := require.New(t)
	app := newTestAbciApp(t)

	for _, sender := range []string{"a", "b", "c"} {
		require.NoError(app.ProcessTransaction(tx(valuePayload{Base: payload.NewBase(sender), Value_: "x"})))
	}
	app.EndBlock()
	require.Equal("R2", app.CurrentRoundID())

	for _, sender := range []string{"a", "b", "c"} {
		require.NoError(app.ProcessTransaction(tx(valuePayload{Base: payload.NewBase(sender), Value_: "y"})))
	}
	app.EndBlock()

	require.True(app.IsFinished())
	require.Nil(app.CurrentRound())
	require.Equal("R2", app.LastRoundID())
}

func TestAbciApp_RejectsTransactionsAfterFinished(t *testing.T) {
	require := require.New(t)
	app := newTestAbciApp(t)
	for _, sender := range []string{"a", "b", "c"} {
		require.NoError(app.ProcessTransaction(tx(valuePayload{Base: payload.NewBase(sender), Value_: "x"})))
	}
	app.EndBlock()
	for _, sender := range []string{"a", "b", "c"} {
		require.NoError(app.ProcessTransaction(tx(valuePayload{Base: payload.NewBase(sender), Value_: "y"})))
	}
	app.EndBlock()
	require.True(app.IsFinished())

	err := app.ProcessTransaction(tx(valuePayload{Base: payload.NewBase("d"), Value_: "z"}))
	require.Error(err)
}

func TestAbciApp_TimeoutFiresAndSwapsRound(t *testing.T) {
	require := require.New(t)
	app := newTestAbciApp(t)

	base := time.Unix(0, 0)
	app.UpdateTime(base)

	for _, sender := range []string{"a", "b", "c"} {
		require.NoError(app.ProcessTransaction(tx(valuePayload{Base: payload.NewBase(sender), Value_: "x"})))
	}
	app.EndBlock()
	require.Equal("R2", app.CurrentRoundID())

	// No progress in R2; advance block time past R2's scheduled timeout.
	app.UpdateTime(base.Add(31 * time.Second))
	require.True(app.IsFinished())
}

func TestAbciApp_UnknownEventIgnored(t *testing.T) {
	require := require.New(t)
	app := newTestAbciApp(t)
	app.ProcessEvent("NOT_A_REAL_EVENT", app.LatestResult())
	require.Equal("R1", app.CurrentRoundID())
	require.False(app.IsFinished())
}
