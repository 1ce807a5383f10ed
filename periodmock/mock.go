// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package periodmock provides hand-rolled test doubles for the
// crypto.Verifier and round.Round interfaces, in the function-field style
// used across this codebase's other mock packages: set the F field you care
// about, leave the rest nil, and the Cant* flag fails the test if an
// unexpected call happens to land on a nil func field.
package periodmock

import (
	"testing"

	"github.com/luxfi/period/crypto"
	"github.com/luxfi/period/round"
	"github.com/luxfi/period/txn"
)

var _ crypto.Verifier = (*Verifier)(nil)

// Verifier is a mock implementation of crypto.Verifier.
type Verifier struct {
	T          *testing.T
	CantVerify bool

	VerifyF func(ledgerID, senderAddress string, message []byte, signatureHex string) bool
}

// NewVerifier creates a new Verifier mock.
func NewVerifier(t *testing.T) *Verifier {
	return &Verifier{T: t}
}

func (v *Verifier) Verify(ledgerID, senderAddress string, message []byte, signatureHex string) bool {
	if v.VerifyF != nil {
		return v.VerifyF(ledgerID, senderAddress, message, signatureHex)
	}
	if v.CantVerify && v.T != nil {
		v.T.Fatal("unexpected Verify")
	}
	return false
}

// Round is a mock implementation of round.Round.
type Round struct {
	T                      *testing.T
	CantCheckTransaction   bool
	CantProcessTransaction bool
	CantEndBlock           bool

	RoundIDF            func() string
	AllowedTxTypeF      func() string
	CheckTransactionF   func(tx txn.Transaction) error
	ProcessTransactionF func(tx txn.Transaction) error
	EndBlockF           func() (round.Verdict, bool)
}

// NewRound creates a new Round mock.
func NewRound(t *testing.T) *Round {
	return &Round{T: t}
}

func (r *Round) RoundID() string {
	if r.RoundIDF != nil {
		return r.RoundIDF()
	}
	return ""
}

func (r *Round) AllowedTxType() string {
	if r.AllowedTxTypeF != nil {
		return r.AllowedTxTypeF()
	}
	return ""
}

func (r *Round) CheckTransaction(tx txn.Transaction) error {
	if r.CheckTransactionF != nil {
		return r.CheckTransactionF(tx)
	}
	if r.CantCheckTransaction && r.T != nil {
		r.T.Fatal("unexpected CheckTransaction")
	}
	return nil
}

func (r *Round) ProcessTransaction(tx txn.Transaction) error {
	if r.ProcessTransactionF != nil {
		return r.ProcessTransactionF(tx)
	}
	if r.CantProcessTransaction && r.T != nil {
		r.T.Fatal("unexpected ProcessTransaction")
	}
	return nil
}

func (r *Round) EndBlock() (round.Verdict, bool) {
	if r.EndBlockF != nil {
		return r.EndBlockF()
	}
	if r.CantEndBlock && r.T != nil {
		r.T.Fatal("unexpected EndBlock")
	}
	return round.Verdict{}, false
}

var _ round.Round = (*Round)(nil)
