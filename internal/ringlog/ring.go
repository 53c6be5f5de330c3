package ringlog

import (
	"errors"
	"fmt"
)

// Message is a single stored chat entry. Both fields are immutable once
// stored. Key is conventionally unique (derived from sender identity plus a
// millisecond timestamp) but uniqueness is not enforced here.
type Message struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ErrMessageTooLong is returned by Append when the value reaches or exceeds
// the configured per-message byte bound.
var ErrMessageTooLong = errors.New("ringlog: message too long")

// Ring is a fixed-capacity circular log of messages. The ring performs no
// locking of its own; callers serialize access (see services/chat).
type Ring struct {
	slots       []Message
	maxValueLen int
	// end is the index of the most recently written slot. It starts at 0
	// and advances before each write, so the first append lands in slot 1
	// (for capacity > 1) and slot 0 holds its placeholder until the ring
	// wraps.
	end int
}

// New constructs a Ring with the given slot count and per-message byte bound.
// All slots start as placeholder messages with empty key and value; before
// the ring completes its first lap those placeholders are returned by
// snapshots and are indistinguishable from genuinely empty messages.
func New(capacity, maxValueLen int) (*Ring, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ringlog: capacity must be positive, got %d", capacity)
	}
	if maxValueLen <= 0 {
		return nil, fmt.Errorf("ringlog: maxValueLen must be positive, got %d", maxValueLen)
	}
	return &Ring{
		slots:       make([]Message, capacity),
		maxValueLen: maxValueLen,
	}, nil
}

// Capacity returns the fixed slot count.
func (r *Ring) Capacity() int { return len(r.slots) }

// MaxValueLen returns the per-message byte bound (strict less-than).
func (r *Ring) MaxValueLen() int { return r.maxValueLen }

// Append stores a message, unconditionally overwriting the oldest slot once
// the ring is full. Values of maxValueLen bytes or more are rejected with
// ErrMessageTooLong and leave the ring unchanged. O(1).
func (r *Ring) Append(key, value string) error {
	if len(value) >= r.maxValueLen {
		return ErrMessageTooLong
	}
	r.end = (r.end + 1) % len(r.slots)
	r.slots[r.end] = Message{Key: key, Value: value}
	return nil
}

// SnapshotAll returns every slot in insertion order, oldest first. The result
// always has exactly Capacity entries and never aliases internal storage.
func (r *Ring) SnapshotAll() []Message {
	c := len(r.slots)
	out := make([]Message, 0, c)
	i := (r.end + 1) % c
	for {
		out = append(out, r.slots[i])
		i = (i + 1) % c
		if i == (r.end+1)%c {
			break
		}
	}
	return out
}

// SnapshotFrom returns the messages stored after a marker key, oldest first,
// including the matching slot itself. The scan walks the same oldest-to-
// newest order as SnapshotAll and begins emitting on the step after the
// marker's slot index is reached.
//
// Boundary semantics, kept bit-for-bit from the original system: the marker
// comparison runs after the index advances and after the termination check,
// so the single oldest slot is never compared. A marker sitting in the
// oldest slot therefore yields an empty result even though SnapshotAll
// contains it. An unknown marker also yields an empty result, never an
// error. When duplicate keys exist, the first occurrence in scan order
// starts the emission.
func (r *Ring) SnapshotFrom(marker string) []Message {
	c := len(r.slots)
	out := make([]Message, 0, c)
	i := (r.end + 1) % c
	emitting := false
	for {
		if emitting {
			out = append(out, r.slots[i])
		}
		i = (i + 1) % c
		if i == (r.end+1)%c {
			break
		}
		if r.slots[i].Key == marker {
			emitting = true
		}
	}
	return out
}
