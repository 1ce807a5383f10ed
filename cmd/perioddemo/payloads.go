// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import "github.com/luxfi/period/payload"

// valuePayload carries a single opaque string value, collected by the demo's
// initial CollectSameUntilThresholdRound.
type valuePayload struct {
	payload.Base
	Value_ string `json:"value"`
}

func (valuePayload) TransactionType() string { return "demo_value" }
func (p valuePayload) Value() string         { return p.Value_ }

// votePayload carries a boolean vote, collected by the demo's VotingRound.
type votePayload struct {
	payload.Base
	Vote_ bool `json:"vote"`
}

func (votePayload) TransactionType() string { return "demo_vote" }
func (p votePayload) Vote() bool             { return p.Vote_ }

func init() {
	payload.Register("demo_value", func() payload.Payload { return &valuePayload{} })
	payload.Register("demo_vote", func() payload.Payload { return &votePayload{} })
}
