// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package abciapp implements the round FSM that sits between the engine's
// block-lifecycle callbacks and the round abstraction family: it holds the
// current round, swaps it on verdicts per a flat transition table, and
// drives the block-time timeout scheduler.
package abciapp

import (
	"fmt"
	"time"

	log "github.com/luxfi/log"

	"github.com/luxfi/period/errs"
	"github.com/luxfi/period/round"
	"github.com/luxfi/period/timeout"
	"github.com/luxfi/period/txn"
)

// transitionRow is one (from, event) -> to entry, keyed by stable round-id
// strings rather than class objects, per the flat-table design.
type transitionRow struct {
	from  string
	event round.Event
	to    string
}

// Config is the class-level configuration a concrete application supplies:
// the initial round, the transition table, the per-event timeout durations,
// and the set of round ids that terminate a period.
type Config struct {
	Registry        *round.Registry
	InitialRoundID  string
	Transitions     []transitionRow
	EventToTimeout  map[round.Event]time.Duration
	FinalStates     map[string]bool
	ConsensusParams round.ConsensusParams
}

// Transition returns a (from, event) -> to row for a Config's transition
// table. It is the constructor helper applications use to build Config.Transitions.
func Transition(from string, event round.Event, to string) transitionRow {
	return transitionRow{from: from, event: event, to: to}
}

// AbciApp is the round FSM: it holds the current round instance, the
// shared replicated state, and the timeout scheduler, and applies the
// transition table on every process_event call.
type AbciApp struct {
	cfg    Config
	log    log.Logger
	timers *timeout.Scheduler[round.Event]

	state   round.State
	current round.Round

	lastRoundID   string
	lastTimestamp time.Time
	latestResult  round.State
	finished      bool

	currentTimeout    timeout.EntryID
	hasCurrentTimeout bool

	table map[string]map[round.Event]string
}

// New constructs an AbciApp. logger may be nil, in which case a no-op
// logger is used.
func New(cfg Config, state round.State, logger log.Logger) *AbciApp {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	table := make(map[string]map[round.Event]string, len(cfg.Transitions))
	for _, row := range cfg.Transitions {
		if table[row.from] == nil {
			table[row.from] = make(map[round.Event]string)
		}
		table[row.from][row.event] = row.to
	}
	return &AbciApp{
		cfg:    cfg,
		log:    logger,
		timers: timeout.New[round.Event](),
		state:  state,
		table:  table,
	}
}

// Setup instantiates the initial round and sets it as current. It must be
// called exactly once, before any other AbciApp method.
func (a *AbciApp) Setup() error {
	r, err := a.cfg.Registry.Build(a.cfg.InitialRoundID, a.state, a.cfg.ConsensusParams)
	if err != nil {
		return fmt.Errorf("abciapp: setup: %w", err)
	}
	a.current = r
	a.lastRoundID = a.cfg.InitialRoundID
	return nil
}

// CurrentRound returns the round in progress, or nil if the period has
// finished.
func (a *AbciApp) CurrentRound() round.Round { return a.current }

// CurrentRoundID returns the in-progress round's id, or "" if finished.
func (a *AbciApp) CurrentRoundID() string {
	if a.current == nil {
		return ""
	}
	return a.current.RoundID()
}

// LastRoundID returns the id of the most recently active round, including
// after the period has finished.
func (a *AbciApp) LastRoundID() string { return a.lastRoundID }

// LastTimestamp returns the block timestamp as of the most recent UpdateTime
// call.
func (a *AbciApp) LastTimestamp() time.Time { return a.lastTimestamp }

// LatestResult returns the replicated state produced by the most recent
// round verdict.
func (a *AbciApp) LatestResult() round.State { return a.latestResult }

// IsFinished reports whether the period has reached a final round.
func (a *AbciApp) IsFinished() bool { return a.finished }

// CheckTransaction forwards to the current round's CheckTransaction.
func (a *AbciApp) CheckTransaction(tx txn.Transaction) error {
	if a.finished || a.current == nil {
		return fmt.Errorf("%w: check_transaction called after period finished", errs.ErrABCIAppInternal)
	}
	return a.current.CheckTransaction(tx)
}

// ProcessTransaction forwards to the current round's ProcessTransaction.
func (a *AbciApp) ProcessTransaction(tx txn.Transaction) error {
	if a.finished || a.current == nil {
		return fmt.Errorf("%w: process_transaction called after period finished", errs.ErrABCIAppInternal)
	}
	return a.current.ProcessTransaction(tx)
}

// ProcessEvent applies the transition table entry for (current round,
// event). Unknown (round, event) pairs are logged and ignored, since the
// engine cannot be trusted to deliver only known events. result becomes the
// new replicated state handed to the next round's constructor.
func (a *AbciApp) ProcessEvent(event round.Event, result round.State) {
	if a.current == nil {
		a.log.Warn("abciapp: process_event with no current round", "event", event)
		return
	}

	from := a.current.RoundID()
	to, ok := a.table[from][event]
	if !ok {
		a.log.Warn("abciapp: unknown transition, ignoring", "from", from, "event", event)
		return
	}

	if a.hasCurrentTimeout {
		// The previous round's outstanding timeout no longer applies once
		// it has transitioned out via any event.
		_ = a.timers.Cancel(a.currentTimeout)
		a.hasCurrentTimeout = false
	}

	a.state = result
	a.latestResult = result
	a.lastRoundID = from

	if a.cfg.FinalStates[to] {
		a.current = nil
		a.finished = true
		return
	}

	next, err := a.cfg.Registry.Build(to, a.state, a.cfg.ConsensusParams)
	if err != nil {
		a.log.Warn("abciapp: failed to build next round, ignoring transition", "to", to, "err", err)
		return
	}
	a.current = next

	if d, ok := a.cfg.EventToTimeout[event]; ok {
		a.currentTimeout = a.timers.Add(a.lastTimestamp.Add(d), event)
		a.hasCurrentTimeout = true
	}
}

// UpdateTime advances the block-time clock and fires every timeout whose
// deadline has passed, each via ProcessEvent.
func (a *AbciApp) UpdateTime(ts time.Time) {
	a.lastTimestamp = ts
	for {
		deadline, event, ok := a.timers.Peek()
		if !ok || deadline.After(ts) {
			return
		}
		a.timers.Pop()
		a.hasCurrentTimeout = false
		a.ProcessEvent(event, a.state)
	}
}

// EndBlock asks the current round for a verdict and, if one is produced,
// applies it via ProcessEvent. It is a no-op if the round is not yet
// concluded or the period has already finished.
func (a *AbciApp) EndBlock() {
	if a.finished || a.current == nil {
		return
	}
	verdict, ok := a.current.EndBlock()
	if !ok {
		return
	}
	a.ProcessEvent(verdict.Event, verdict.NextState)
}
