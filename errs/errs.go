// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package errs collects the sentinel error kinds shared across the period
// driver, mirroring the flat var-block-of-sentinels style used throughout
// the sibling consensus engine (see consensus/parameters.go's ErrInvalidK
// family). Callers wrap these with fmt.Errorf("...: %w", ErrX) to attach
// context; errors.Is/errors.As against the sentinels below is how the
// engine-facing adapter classifies a failure per the propagation policy.
package errs

import "errors"

var (
	// ErrSignatureInvalid is raised when a transaction's signature fails
	// cryptographic verification.
	ErrSignatureInvalid = errors.New("signature invalid")

	// ErrTxTypeNotRecognized is raised when a payload's transaction_type
	// tag has no registered variant, or a round is handed a tag other
	// than its allowed_tx_type.
	ErrTxTypeNotRecognized = errors.New("transaction type not recognized")

	// ErrTransactionNotValid is raised when a payload fails the current
	// round's check_payload (wrong sender, duplicate sender, duplicate
	// value, wrong keeper, ...).
	ErrTransactionNotValid = errors.New("transaction not valid for current round")

	// ErrAddBlock is raised when a block's height does not extend the
	// blockchain by exactly one.
	ErrAddBlock = errors.New("block height does not extend chain")

	// ErrABCIAppInternal marks a programmer error: reading a verdict
	// before threshold, double-setting a builder header, processing a
	// payload that was never checked, etc. It always indicates a bug,
	// never bad input.
	ErrABCIAppInternal = errors.New("internal abci app error")

	// ErrKeyNotFound is raised when cancelling an unknown timeout entry
	// id.
	ErrKeyNotFound = errors.New("key not found")
)
