// Package queue holds the tracks waiting to be played in one guild.
package queue

import (
	"errors"
	"slices"

	"dinkbot/internal/music/sources"
)

// ErrQueueFull is returned by Enqueue on a bounded queue at capacity.
var ErrQueueFull = errors.New("queue is full")

// Queue is a FIFO of tracks. It is not safe for concurrent use; the player
// session that owns it serializes access.
type Queue struct {
	items []sources.Track
	head  int
	limit int
}

// New returns an empty queue. limit <= 0 means unbounded.
func New(limit int) *Queue {
	return &Queue{limit: limit}
}

// Enqueue appends t to the tail.
func (q *Queue) Enqueue(t sources.Track) error {
	if q.limit > 0 && q.Len() >= q.limit {
		return ErrQueueFull
	}
	q.items = append(q.items, t)
	return nil
}

// Dequeue removes and returns the head; ok is false when the queue is empty.
func (q *Queue) Dequeue() (t sources.Track, ok bool) {
	if q.IsEmpty() {
		return sources.Track{}, false
	}
	t = q.items[q.head]
	q.items[q.head] = sources.Track{}
	q.head++

	// reclaim the consumed prefix once it dominates the backing array
	if q.head > 32 && q.head*2 >= len(q.items) {
		q.items = slices.Clone(q.items[q.head:])
		q.head = 0
	}
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return t, true
}

func (q *Queue) IsEmpty() bool { return q.Len() == 0 }

func (q *Queue) Len() int { return len(q.items) - q.head }

// Limit returns the capacity, 0 when unbounded.
func (q *Queue) Limit() int { return max(q.limit, 0) }

// Items returns a copy of the pending tracks, head first.
func (q *Queue) Items() []sources.Track {
	return slices.Clone(q.items[q.head:])
}
