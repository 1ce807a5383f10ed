// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package crypto defines the signature-verification collaborator the
// period driver delegates to. Real signature schemes, key management, and
// HSM/remote-signer integration are out of scope for this module (spec
// non-goal); this package only fixes the boundary interface and ships a
// deterministic stub implementation for demos and tests.
package crypto

// Verifier checks a signature over message, purportedly produced by
// senderAddress under ledgerID. It is the sole cryptographic primitive the
// period driver depends on.
type Verifier interface {
	Verify(ledgerID, senderAddress string, message []byte, signatureHex string) bool
}

// Signer produces signatures compatible with a Verifier. It exists only so
// the demo CLI and tests can construct valid transactions; production
// deployments sign off-process and never need this interface.
type Signer interface {
	Sign(ledgerID, senderAddress string, message []byte) (signatureHex string, err error)
}
