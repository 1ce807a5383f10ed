// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package timeout implements the block-time-keyed timeout scheduler: a
// min-heap of (deadline, event) ordered first by deadline, with lazy
// cancellation so Cancel never has to remove an entry or rebalance the
// heap (it only scans it to reject unknown ids).
//
// Deadlines are block-time instants, not wall-clock — the period driver
// calls AbciApp.UpdateTime(header.Timestamp) on every begin_block, which
// pops every entry whose deadline has passed, so timeout
// ordering is identical across every replica regardless of real-world
// clock skew.
package timeout

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/luxfi/period/errs"
)

// EntryID is a monotonic handle returned by Add, used to Cancel a pending
// timeout.
type EntryID uint64

type entry[E any] struct {
	deadline time.Time
	id       EntryID
	event    E
}

type entryHeap[E any] []entry[E]

func (h entryHeap[E]) Len() int { return len(h) }

func (h entryHeap[E]) Less(i, j int) bool {
	if !h[i].deadline.Equal(h[j].deadline) {
		return h[i].deadline.Before(h[j].deadline)
	}
	return h[i].id < h[j].id
}

func (h entryHeap[E]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap[E]) Push(x any) {
	*h = append(*h, x.(entry[E]))
}

func (h *entryHeap[E]) Pop() any {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

// Scheduler is a min-priority queue of (deadline, event) entries keyed by
// block-time deadlines, with entries addressable and cancellable by
// EntryID. E is the event type carried alongside each deadline — in
// practice round.Event, but the scheduler itself has no dependency on
// that package.
type Scheduler[E any] struct {
	heap      entryHeap[E]
	cancelled map[EntryID]bool
	nextID    EntryID
}

// New returns an empty Scheduler.
func New[E any]() *Scheduler[E] {
	return &Scheduler[E]{
		cancelled: make(map[EntryID]bool),
	}
}

// Add schedules event to fire at deadline and returns its EntryID.
func (s *Scheduler[E]) Add(deadline time.Time, event E) EntryID {
	s.nextID++
	id := s.nextID
	heap.Push(&s.heap, entry[E]{deadline: deadline, id: id, event: event})
	return id
}

// Cancel marks id as cancelled. It is lazily dropped the next time it
// would be popped. Cancelling an unknown id is an error.
func (s *Scheduler[E]) Cancel(id EntryID) error {
	if !s.contains(id) {
		return fmt.Errorf("%w: timeout entry %d", errs.ErrKeyNotFound, id)
	}
	s.cancelled[id] = true
	return nil
}

func (s *Scheduler[E]) contains(id EntryID) bool {
	for _, e := range s.heap {
		if e.id == id {
			return true
		}
	}
	return false
}

// dropCancelled pops and discards every entry at the top of the heap that
// has been cancelled.
func (s *Scheduler[E]) dropCancelled() {
	for s.heap.Len() > 0 {
		top := s.heap[0]
		if !s.cancelled[top.id] {
			return
		}
		heap.Pop(&s.heap)
		delete(s.cancelled, top.id)
	}
}

// PopEarliestCancelledTimeouts discards every cancelled entry currently at
// the front of the queue.
func (s *Scheduler[E]) PopEarliestCancelledTimeouts() {
	s.dropCancelled()
}

// Peek returns the earliest non-cancelled (deadline, event) without
// removing it.
func (s *Scheduler[E]) Peek() (deadline time.Time, event E, ok bool) {
	s.dropCancelled()
	if s.heap.Len() == 0 {
		return time.Time{}, event, false
	}
	top := s.heap[0]
	return top.deadline, top.event, true
}

// Pop removes and returns the earliest non-cancelled (deadline, event).
func (s *Scheduler[E]) Pop() (deadline time.Time, event E, ok bool) {
	s.dropCancelled()
	if s.heap.Len() == 0 {
		return time.Time{}, event, false
	}
	top := heap.Pop(&s.heap).(entry[E])
	delete(s.cancelled, top.id)
	return top.deadline, top.event, true
}

// Len returns the number of entries still queued, including cancelled ones
// not yet lazily dropped.
func (s *Scheduler[E]) Len() int {
	return s.heap.Len()
}
