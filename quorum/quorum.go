// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package quorum implements the Byzantine quorum arithmetic shared by every
// round variant: the threshold size for n participants, whether a value has
// already reached it, and whether a value can still possibly reach it given
// the votes outstanding (fast-fail).
//
// Votes are tracked as sender -> canonical-value, the same shape as
// utils/bag.Bag in the sibling consensus engine, except keyed by sender so a
// round can reject a second vote from the same participant before it ever
// reaches this package.
package quorum

import (
	"errors"
	"sort"
)

// ErrVoterAlreadyCounted is a programmer error: the caller hypothesized a
// new voter that has already cast a vote.
var ErrVoterAlreadyCounted = errors.New("quorum: voter already present in tally")

// Threshold returns the Byzantine quorum size for n participants:
// floor(2n/3) + 1.
func Threshold(n int) int {
	if n <= 0 {
		return 1
	}
	return (2*n)/3 + 1
}

// Counts tallies votes (sender -> value) into value -> count. Only the
// counts are returned; iteration order over the result is never observed by
// callers in this package without going through Mode, which sorts.
func Counts(votes map[string]string) map[string]int {
	counts := make(map[string]int, len(votes))
	for _, v := range votes {
		counts[v]++
	}
	return counts
}

// Mode returns the most frequent value and its count. Ties are broken by
// the lexicographically smallest value, so the result is identical on every
// replica regardless of map iteration order (spec determinism requirement).
func Mode(counts map[string]int) (value string, count int) {
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)

	for _, v := range values {
		if counts[v] > count {
			value, count = v, counts[v]
		}
	}
	return value, count
}

// ThresholdReached reports whether some value has reached Threshold(n)
// votes, and which value that is (tie-broken per Mode).
func ThresholdReached(votes map[string]string, n int) (value string, ok bool) {
	counts := Counts(votes)
	value, count := Mode(counts)
	return value, count >= Threshold(n)
}

// LargestBucket returns the size of the largest value bucket in votes, 0 if
// votes is empty.
func LargestBucket(votes map[string]string) int {
	_, count := Mode(Counts(votes))
	return count
}

// MajorityPossible reports whether some value can still reach Threshold(n)
// once all n participants have voted: the participants who haven't voted
// yet, plus the current largest bucket, must be able to cover the quorum.
func MajorityPossible(votes map[string]string, n int) bool {
	remaining := n - len(votes)
	return remaining+LargestBucket(votes) >= Threshold(n)
}

// CheckMajorityPossibleWithNewVoter evaluates MajorityPossible against the
// hypothetical tally that would result from newVoter casting newVote, and
// returns err if no value could still reach quorum afterwards. It is a
// programmer error to call this with a voter already present in votes.
func CheckMajorityPossibleWithNewVoter(votes map[string]string, newVoter, newVote string, n int, err error) error {
	if _, ok := votes[newVoter]; ok {
		return ErrVoterAlreadyCounted
	}
	hypothetical := make(map[string]string, len(votes)+1)
	for k, v := range votes {
		hypothetical[k] = v
	}
	hypothetical[newVoter] = newVote

	if !MajorityPossible(hypothetical, n) {
		return err
	}
	return nil
}
