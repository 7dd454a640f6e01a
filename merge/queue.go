// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package merge implements the single-sub-timestep merger event queue
// (spec.md §3 "Merger event queue", §4.D). Events are discovered during
// the GALAXY phase but applied during POST, so the queue's only job is to
// remember enqueue order until the driver drains it.
package merge

import "errors"

// ErrQueueFull is returned by Enqueue when the queue is at capacity —
// a resource-exhaustion error, fatal to the run (spec.md §7).
var ErrQueueFull = errors.New("merge: queue is at capacity")

// Event is one deferred merger interaction.
type Event struct {
	SatelliteIndex int
	CentralIndex   int
	MergeType      int
	ScheduledTime  float64
	QueuedAtStep   int
}

// Queue is a bounded-capacity FIFO of pending merger events for one
// sub-timestep.
type Queue struct {
	events []Event
	cap    int
}

// NewQueue returns an empty Queue bounded to capacity events.
func NewQueue(capacity int) *Queue {
	return &Queue{events: make([]Event, 0, capacity), cap: capacity}
}

// Enqueue appends ev, or returns ErrQueueFull if the queue is at capacity.
func (q *Queue) Enqueue(ev Event) error {
	if len(q.events) >= q.cap {
		return ErrQueueFull
	}
	q.events = append(q.events, ev)
	return nil
}

// Reset clears the queue for the next sub-timestep.
func (q *Queue) Reset() {
	q.events = q.events[:0]
}

// Len returns the number of pending events.
func (q *Queue) Len() int { return len(q.events) }

// Drain invokes handler on each event in enqueue order. There is no
// reordering by time or by mass (spec.md §4.D).
func (q *Queue) Drain(handler func(Event) error) error {
	for _, ev := range q.events {
		if err := handler(ev); err != nil {
			return err
		}
	}
	return nil
}
