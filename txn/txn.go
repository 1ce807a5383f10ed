// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package txn implements the transaction envelope: a payload paired with a
// sender signature over its canonical encoding.
package txn

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/period/crypto"
	"github.com/luxfi/period/errs"
	"github.com/luxfi/period/payload"
)

// Transaction pairs a payload with the sender's signature over its
// canonical encoding.
type Transaction struct {
	Payload   payload.Payload
	Signature string
}

// Equal reports whether two transactions carry byte-identical payloads and
// signatures.
func (t Transaction) Equal(other Transaction) bool {
	if t.Signature != other.Signature {
		return false
	}
	a, errA := payload.Encode(t.Payload)
	b, errB := payload.Encode(other.Payload)
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}

// Verify checks t's signature against v for ledgerID, returning
// errs.ErrSignatureInvalid on failure.
func (t Transaction) Verify(v crypto.Verifier, ledgerID string) error {
	message, err := payload.Encode(t.Payload)
	if err != nil {
		return fmt.Errorf("txn: encode payload for verification: %w", err)
	}
	if !v.Verify(ledgerID, t.Payload.Sender(), message, t.Signature) {
		return errs.ErrSignatureInvalid
	}
	return nil
}

// wireForm is the canonical {"payload": ..., "signature": ...} envelope.
// Payload is carried as the UTF-8 string of its own canonical encoding, per
// the wire format, rather than as a nested JSON object, so the exact bytes
// that were signed are recoverable byte-for-byte on decode.
type wireForm struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// Encode serializes t to its canonical wire form.
func Encode(t Transaction) ([]byte, error) {
	payloadBytes, err := payload.Encode(t.Payload)
	if err != nil {
		return nil, fmt.Errorf("txn: encode payload: %w", err)
	}
	return json.Marshal(wireForm{
		Payload:   string(payloadBytes),
		Signature: t.Signature,
	})
}

// Decode parses data using registry to recover the concrete payload
// variant.
func Decode(data []byte, registry *payload.Registry) (Transaction, error) {
	var wire wireForm
	if err := json.Unmarshal(data, &wire); err != nil {
		return Transaction{}, fmt.Errorf("txn: malformed envelope: %w", err)
	}

	p, err := registry.Decode([]byte(wire.Payload))
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{Payload: p, Signature: wire.Signature}, nil
}
