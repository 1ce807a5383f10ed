// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package payload implements the process-wide payload registry and the
// canonical wire codec described by the period driver's transaction layer.
//
// A Payload is always the data carried by exactly one Transaction (see the
// sibling txn package). Every concrete variant embeds Base for the
// sender/id fields and supplies its own variant-specific fields plus a
// TransactionType tag. Encoding always round-trips through a
// map[string]json.RawMessage so the wire form is byte-identical for
// byte-identical payloads regardless of struct field declaration order —
// Go's encoding/json sorts map keys, which is what makes the output
// canonical (required so two participants signing the same payload produce
// the same bytes).
package payload

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/luxfi/period/errs"
)

// Payload is the common contract every transaction payload variant
// satisfies.
type Payload interface {
	// TransactionType returns the class-level tag that uniquely
	// identifies this variant across the process.
	TransactionType() string
	Sender() string
	ID() string
}

// Base carries the fields common to every payload variant. Concrete
// variants embed Base.
type Base struct {
	Sender_ string `json:"sender"`
	ID_     string `json:"id"`
}

// NewBase returns a Base for sender with a freshly generated 32-hex-char id.
func NewBase(sender string) Base {
	return Base{Sender_: sender, ID_: newID()}
}

func (b Base) Sender() string { return b.Sender_ }
func (b Base) ID() string     { return b.ID_ }

func newID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read failing indicates a broken host; there is
		// nothing a caller of NewBase can do to recover.
		panic(fmt.Sprintf("payload: failed to generate id: %v", err))
	}
	return hex.EncodeToString(buf)
}

// Factory constructs a zero-value pointer to a concrete Payload variant,
// ready to be passed to json.Unmarshal.
type Factory func() Payload

// Registry maps transaction_type tags to payload variant factories. The
// zero-value Registry is not usable; use NewRegistry.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register associates tag with factory. Registering an already-registered
// tag is a fatal configuration error, detected immediately, matching the
// "populate at startup, read-only thereafter" lifecycle: two payload
// variants can never share a tag once the process has started handling
// transactions.
func (r *Registry) Register(tag string, factory Factory) {
	if _, exists := r.factories[tag]; exists {
		panic(fmt.Sprintf("payload: duplicate transaction_type registration: %q", tag))
	}
	r.factories[tag] = factory
}

// Decode parses data, reads its transaction_type tag, and invokes the
// registered factory, unmarshaling the full envelope into the resulting
// value.
func (r *Registry) Decode(data []byte) (Payload, error) {
	var tag struct {
		Type string `json:"transaction_type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("payload: malformed envelope: %w", err)
	}

	factory, ok := r.factories[tag.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrTxTypeNotRecognized, tag.Type)
	}

	p := factory()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("payload: decode %q: %w", tag.Type, err)
	}
	return p, nil
}

// Encode serializes p into canonical JSON: the envelope's fixed keys
// (transaction_type, sender, id) merged with p's variant-specific fields,
// with object keys in sorted order.
func Encode(p Payload) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("payload: encode %q: %w", p.TransactionType(), err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("payload: encode %q: %w", p.TransactionType(), err)
	}

	tagJSON, err := json.Marshal(p.TransactionType())
	if err != nil {
		return nil, fmt.Errorf("payload: encode %q: %w", p.TransactionType(), err)
	}
	fields["transaction_type"] = tagJSON

	// Marshaling a map[string]json.RawMessage always sorts keys, which is
	// what makes this output canonical.
	return json.Marshal(fields)
}

// defaultRegistry is the process-wide registry used by Register/Decode.
var defaultRegistry = NewRegistry()

// Register registers factory under tag in the process-wide registry.
// Call it from an init() in the package that defines the variant, the same
// "populate at startup" moment the source's auto-registering metaclass
// fired at class-definition time.
func Register(tag string, factory Factory) {
	defaultRegistry.Register(tag, factory)
}

// Decode decodes data using the process-wide registry.
func Decode(data []byte) (Payload, error) {
	return defaultRegistry.Decode(data)
}
