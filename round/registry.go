// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package round

import "fmt"

// Constructor builds the round identified by RoundID for the given
// replicated state and consensus params, ready to accept transactions
// until it reaches a verdict at some end_block.
type Constructor func(state State, params ConsensusParams) Round

// Registry maps round_id to the Constructor that builds it, letting the
// engine-facing driver express its transition table as flat
// (fromRoundID, Event) -> toRoundID rows rather than a graph of concrete
// round types wired to each other.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register associates roundID with constructor. Re-registering an
// already-registered roundID is a fatal configuration error.
func (r *Registry) Register(roundID string, constructor Constructor) {
	if _, exists := r.constructors[roundID]; exists {
		panic(fmt.Sprintf("round: duplicate round_id registration: %q", roundID))
	}
	r.constructors[roundID] = constructor
}

// Build constructs the round registered under roundID.
func (r *Registry) Build(roundID string, state State, params ConsensusParams) (Round, error) {
	constructor, ok := r.constructors[roundID]
	if !ok {
		return nil, fmt.Errorf("round: unknown round_id %q", roundID)
	}
	return constructor(state, params), nil
}
