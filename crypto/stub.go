// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACStub is a deterministic, symmetric-key Verifier/Signer used by the
// demo CLI and by tests that need a working signature scheme without
// pulling in real key management. It is not a production signature scheme:
// every participant shares the same key, which only a single-process demo
// can get away with.
type HMACStub struct {
	Key []byte
}

var (
	_ Verifier = HMACStub{}
	_ Signer   = HMACStub{}
)

func (h HMACStub) Sign(ledgerID, senderAddress string, message []byte) (string, error) {
	return hex.EncodeToString(h.mac(ledgerID, senderAddress, message)), nil
}

func (h HMACStub) Verify(ledgerID, senderAddress string, message []byte, signatureHex string) bool {
	want := h.mac(ledgerID, senderAddress, message)
	got, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	return hmac.Equal(want, got)
}

func (h HMACStub) mac(ledgerID, senderAddress string, message []byte) []byte {
	mac := hmac.New(sha256.New, h.Key)
	mac.Write([]byte(ledgerID))
	mac.Write([]byte{0})
	mac.Write([]byte(senderAddress))
	mac.Write([]byte{0})
	mac.Write(message)
	return mac.Sum(nil)
}
