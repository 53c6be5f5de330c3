// Package ringlog implements the bounded in-memory chat log.
//
// # Overview
//
// A Ring holds a fixed number of message slots and a write cursor pointing at
// the most recently written slot. Appends advance the cursor with wraparound
// and overwrite whatever the target slot held, so the log never grows beyond
// its capacity and the oldest entry is silently discarded once the ring is
// full. Two read operations exist: SnapshotAll returns every slot oldest
// first, and SnapshotFrom resumes from a previously seen message key.
//
// The ring is deliberately free of locking and of serialization concerns:
// callers serialize access (the chat service holds one mutex around every
// operation) and a separate formatting step renders snapshots for the wire.
//
// API surface (internal)
//
//	r, _ := ringlog.New(256, 1024)
//	_ = r.Append("alice1700000000000", "hello")
//	all := r.SnapshotAll()            // always Capacity entries, oldest first
//	tail := r.SnapshotFrom(all[3].Key) // inclusive of the marker slot
package ringlog
