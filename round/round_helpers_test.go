// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import (
	"github.com/luxfi/period/internal/set"
	"github.com/luxfi/period/payload"
	"github.com/luxfi/period/txn"
)

// valuePayload and votePayload are test-only payload variants exercising
// Valuer and Voter respectively, not registered on any Registry since these
// tests construct Transaction values directly rather than decoding them.

type valuePayload struct {
	payload.Base
	Value_ string
}

func (valuePayload) TransactionType() string { return "test_value" }
func (p valuePayload) Value() string         { return p.Value_ }

type votePayload struct {
	payload.Base
	Vote_ bool
}

func (votePayload) TransactionType() string { return "test_vote" }
func (p votePayload) Vote() bool             { return p.Vote_ }

func newParticipants(addrs ...string) set.Set[string] {
	return set.Of(addrs...)
}

func tx(p payload.Payload) txn.Transaction {
	return txn.Transaction{Payload: p, Signature: "unchecked-in-these-tests"}
}

func newState(addrs ...string) State {
	return NewState(newParticipants(addrs...))
}
