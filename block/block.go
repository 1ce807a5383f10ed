// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package block implements the application's append-only block log: the
// Header/Block value types, a mutable BlockBuilder scratch the period
// driver fills in across begin_block/deliver_tx/commit, and the Blockchain
// that accumulates sealed blocks.
//
// Only Height and Timestamp are load-bearing for the core (spec); Proposer
// and any other header fields are carried for hosts that want them but are
// never inspected here.
package block

import (
	"fmt"
	"time"

	"github.com/luxfi/period/errs"
	"github.com/luxfi/period/txn"
)

// Header is the metadata accompanying a Block. Height and Timestamp are
// the only fields the core depends on.
type Header struct {
	Height    uint64
	Timestamp time.Time
	Proposer  string
}

// Block pairs a Header with the ordered transactions delivered in it.
// Empty blocks (zero transactions) are valid.
type Block struct {
	Header       Header
	Transactions []txn.Transaction
}

// Builder is the mutable scratch the period driver fills in between
// begin_block and commit. SetHeader moves it from empty to header-set;
// GetBlock copies its contents into a Block and leaves the builder as it
// is, so there is no separate sealed state and transactions can still be
// added afterwards. Reset returns it to empty.
type Builder struct {
	header    *Header
	headerSet bool
	txs       []txn.Transaction
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Reset clears the header and transactions, returning the builder to the
// empty state.
func (b *Builder) Reset() {
	b.header = nil
	b.headerSet = false
	b.txs = nil
}

// SetHeader sets the builder's header. Setting it twice without an
// intervening Reset is a programmer error.
func (b *Builder) SetHeader(h Header) error {
	if b.headerSet {
		return fmt.Errorf("%w: block header already set", errs.ErrABCIAppInternal)
	}
	b.header = &h
	b.headerSet = true
	return nil
}

// HasHeader reports whether SetHeader has been called since the last
// Reset.
func (b *Builder) HasHeader() bool {
	return b.headerSet
}

// AddTransaction appends tx to the pending block. No deduplication happens
// here; the engine guarantees transaction uniqueness upstream.
func (b *Builder) AddTransaction(tx txn.Transaction) {
	b.txs = append(b.txs, tx)
}

// GetBlock seals the builder's contents into a Block. It fails if no
// header has been set; empty transaction lists are allowed.
func (b *Builder) GetBlock() (Block, error) {
	if !b.headerSet {
		return Block{}, fmt.Errorf("%w: cannot seal block without header", errs.ErrABCIAppInternal)
	}
	return Block{
		Header:       *b.header,
		Transactions: append([]txn.Transaction(nil), b.txs...),
	}, nil
}

// Blockchain is an append-only, strictly height-increasing sequence of
// blocks.
type Blockchain struct {
	blocks []Block
}

// NewBlockchain returns an empty Blockchain.
func NewBlockchain() *Blockchain {
	return &Blockchain{}
}

// Height returns the height of the latest block, 0 if the chain is empty.
func (c *Blockchain) Height() uint64 {
	return uint64(len(c.blocks))
}

// AddBlock appends b to the chain. b.Header.Height must equal Height()+1;
// any other value leaves the chain unchanged and returns errs.ErrAddBlock.
func (c *Blockchain) AddBlock(b Block) error {
	want := c.Height() + 1
	if b.Header.Height != want {
		return fmt.Errorf("%w: got height %d, want %d", errs.ErrAddBlock, b.Header.Height, want)
	}
	c.blocks = append(c.blocks, b)
	return nil
}

// Block returns the block at the given 1-based height.
func (c *Blockchain) Block(height uint64) (Block, bool) {
	if height == 0 || height > c.Height() {
		return Block{}, false
	}
	return c.blocks[height-1], true
}

// Latest returns the most recently appended block.
func (c *Blockchain) Latest() (Block, bool) {
	return c.Block(c.Height())
}
