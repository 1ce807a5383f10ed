// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command perioddemo drives a single-process, four-participant period
// end-to-end from canned transactions: a value-collection round followed by
// a vote round, committing one block per round. It exists to exercise the
// round/abciapp/period wiring the way a real ABCI host would, without any
// networking or persistence.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	log "github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/period/abciapp"
	"github.com/luxfi/period/block"
	"github.com/luxfi/period/crypto"
	"github.com/luxfi/period/internal/set"
	"github.com/luxfi/period/metrics"
	"github.com/luxfi/period/payload"
	"github.com/luxfi/period/period"
	"github.com/luxfi/period/round"
	"github.com/luxfi/period/txn"
)

const ledgerID = "perioddemo"

var rootCmd = &cobra.Command{
	Use:   "perioddemo",
	Short: "Run a canned period end-to-end: value collection then a vote",
}

func main() {
	rootCmd.AddCommand(runCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one period to completion",
		RunE:  runDemo,
	}
	cmd.Flags().String("participants", "a,b,c,d", "comma-separated participant addresses")
	cmd.Flags().String("value", "x", "value the collection round should converge on")
	cmd.Flags().Bool("vote", true, "the vote the voting round should converge on")
	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	participantsFlag, _ := cmd.Flags().GetString("participants")
	value, _ := cmd.Flags().GetString("value")
	vote, _ := cmd.Flags().GetBool("vote")

	participants := strings.Split(participantsFlag, ",")
	if len(participants) < 4 {
		return fmt.Errorf("perioddemo: need at least 4 participants, got %d", len(participants))
	}

	logger := log.NewNoOpLogger()

	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("perioddemo: metrics: %w", err)
	}

	signer := crypto.HMACStub{Key: []byte("perioddemo-shared-key")}

	state := round.NewState(set.Of(participants...))
	params := round.ConsensusParams{MaxParticipants: len(participants)}

	registry := round.NewRegistry()
	registry.Register("COLLECT", func(state round.State, params round.ConsensusParams) round.Round {
		return round.NewCollectSameUntilThresholdRound("COLLECT", "demo_value", state, params, "DONE")
	})
	registry.Register("VOTE", func(state round.State, params round.ConsensusParams) round.Round {
		return round.NewVotingRound("VOTE", "demo_vote", state, params, "DONE", "NEGATIVE", fmt.Errorf("perioddemo: no majority possible"))
	})

	var cfg abciapp.Config
	cfg.Registry = registry
	cfg.InitialRoundID = "COLLECT"
	cfg.Transitions = append(cfg.Transitions,
		abciapp.Transition("COLLECT", "DONE", "VOTE"),
		abciapp.Transition("VOTE", "DONE", "FINAL"),
		abciapp.Transition("VOTE", "NEGATIVE", "FINAL"),
	)
	cfg.EventToTimeout = map[round.Event]time.Duration{}
	cfg.FinalStates = map[string]bool{"FINAL": true}
	cfg.ConsensusParams = params

	app := abciapp.New(cfg, state, logger)
	p := period.New(app, m, logger)
	if err := p.Setup(); err != nil {
		return fmt.Errorf("perioddemo: setup: %w", err)
	}

	threshold := len(participants)*2/3 + 1
	voters := participants[:threshold]

	fmt.Printf("perioddemo: %d participants, threshold %d\n", len(participants), threshold)

	// Block 1: collect "value" from a quorum of participants.
	if err := p.BeginBlock(block.Header{Height: 1, Timestamp: time.Unix(0, 0)}); err != nil {
		return err
	}
	for _, sender := range voters {
		t, err := signTx(signer, &valuePayload{Base: payload.NewBase(sender), Value_: value})
		if err != nil {
			return err
		}
		if err := p.DeliverTx(t); err != nil {
			return fmt.Errorf("perioddemo: deliver_tx(%s): %w", sender, err)
		}
	}
	p.EndBlock()
	b1, err := p.Commit()
	if err != nil {
		return err
	}
	fmt.Printf("block 1 committed: height=%d txs=%d round now %q\n", b1.Header.Height, len(b1.Transactions), app.CurrentRoundID())

	if app.IsFinished() {
		return fmt.Errorf("perioddemo: period finished before vote round ran")
	}

	// Block 2: cast votes.
	if err := p.BeginBlock(block.Header{Height: 2, Timestamp: time.Unix(1, 0)}); err != nil {
		return err
	}
	for _, sender := range voters {
		t, err := signTx(signer, &votePayload{Base: payload.NewBase(sender), Vote_: vote})
		if err != nil {
			return err
		}
		if err := p.DeliverTx(t); err != nil {
			return fmt.Errorf("perioddemo: deliver_tx(%s): %w", sender, err)
		}
	}
	p.EndBlock()
	b2, err := p.Commit()
	if err != nil {
		return err
	}
	fmt.Printf("block 2 committed: height=%d txs=%d period finished=%v\n", b2.Header.Height, len(b2.Transactions), app.IsFinished())
	fmt.Printf("final replicated state attrs: %v\n", app.LatestResult().Attrs)
	return nil
}

func signTx(signer crypto.HMACStub, p payload.Payload) (txn.Transaction, error) {
	encoded, err := payload.Encode(p)
	if err != nil {
		return txn.Transaction{}, err
	}
	sig, err := signer.Sign(ledgerID, p.Sender(), encoded)
	if err != nil {
		return txn.Transaction{}, err
	}
	return txn.Transaction{Payload: p, Signature: sig}, nil
}
