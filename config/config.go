// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config implements a fluent, validating builder for the settings a
// host process needs to assemble a Period: the participant set, the
// consensus params, and a default per-round timeout duration. Nothing here is
// consulted by the round/abciapp/period packages themselves — this is the
// construction-time convenience layer a concrete deployment uses to wire
// one up.
package config

import (
	"fmt"
	"time"

	"github.com/luxfi/period/round"
)

// NetworkType names a built-in starting point for Builder.FromPreset.
type NetworkType string

const (
	// LocalNetwork is tuned for a small local test network (4 participants,
	// short timeouts).
	LocalNetwork NetworkType = "local"
	// ProductionNetwork is tuned for a larger deployment with more
	// conservative timeouts.
	ProductionNetwork NetworkType = "production"
)

// Config is the resolved, validated configuration a host uses to build a
// Period.
type Config struct {
	NetworkType     NetworkType
	Participants    []string
	ConsensusParams round.ConsensusParams
	RoundTimeout    time.Duration
}

var (
	localConfig = Config{
		NetworkType:     LocalNetwork,
		Participants:    []string{"a", "b", "c", "d"},
		ConsensusParams: round.ConsensusParams{MaxParticipants: 4},
		RoundTimeout:    5 * time.Second,
	}
	productionConfig = Config{
		NetworkType:     ProductionNetwork,
		ConsensusParams: round.ConsensusParams{MaxParticipants: 0}, // set via WithParticipants
		RoundTimeout:    30 * time.Second,
	}
)

// Builder provides a fluent interface for constructing a Config, with
// validation deferred to Build() and a sticky first error the way the
// Builder this is grounded on short-circuits every With* call once one
// fails.
type Builder struct {
	config *Config
	err    error
}

// NewBuilder returns a Builder seeded with LocalNetwork's defaults.
func NewBuilder() *Builder {
	cfg := localConfig
	return &Builder{config: &cfg}
}

// FromPreset replaces the builder's current config with network's values.
func (b *Builder) FromPreset(network NetworkType) *Builder {
	if b.err != nil {
		return b
	}
	switch network {
	case LocalNetwork:
		cfg := localConfig
		b.config = &cfg
	case ProductionNetwork:
		cfg := productionConfig
		b.config = &cfg
	default:
		b.err = fmt.Errorf("config: unknown preset %q", network)
	}
	return b
}

// WithParticipants sets the participant address list. Must have at least 4
// entries for Byzantine fault tolerance to be meaningful, and sets
// ConsensusParams.MaxParticipants to match.
func (b *Builder) WithParticipants(addrs ...string) *Builder {
	if b.err != nil {
		return b
	}
	if len(addrs) < 4 {
		b.err = fmt.Errorf("config: need at least 4 participants, got %d", len(addrs))
		return b
	}
	b.config.Participants = append([]string(nil), addrs...)
	b.config.ConsensusParams = round.ConsensusParams{MaxParticipants: len(addrs)}
	return b
}

// WithRoundTimeout sets the default per-round timeout duration.
func (b *Builder) WithRoundTimeout(d time.Duration) *Builder {
	if b.err != nil {
		return b
	}
	if d <= 0 {
		b.err = fmt.Errorf("config: round timeout must be positive, got %s", d)
		return b
	}
	b.config.RoundTimeout = d
	return b
}

// Build validates and returns the final configuration.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.config.Participants) < 4 {
		return nil, fmt.Errorf("config: need at least 4 participants, got %d", len(b.config.Participants))
	}
	if b.config.ConsensusParams.MaxParticipants != len(b.config.Participants) {
		return nil, fmt.Errorf("config: consensus params max_participants %d does not match %d participants",
			b.config.ConsensusParams.MaxParticipants, len(b.config.Participants))
	}
	if b.config.RoundTimeout <= 0 {
		return nil, fmt.Errorf("config: round timeout must be positive, got %s", b.config.RoundTimeout)
	}
	return b.config, nil
}
