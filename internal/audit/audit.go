package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	pebblestore "github.com/Ailysom/ras-chat/internal/storage/pebble"
)

// Outcome labels how a request ended.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeDenied   Outcome = "denied"
	OutcomeRejected Outcome = "rejected"
	OutcomeError    Outcome = "error"
)

// Entry records one authorization/operation decision. Entries are written
// best-effort: a failed audit write never fails the request it describes.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	Op      string    `json:"op"`
	Subject string    `json:"subject"`
	Outcome Outcome   `json:"outcome"`
	Detail  string    `json:"detail,omitempty"`
	AtMs    int64     `json:"at_ms"`
}

// Store persists audit entries in Pebble, keyed by timestamp for range scans.
type Store struct {
	db *pebblestore.DB
}

// NewStore wraps an open Pebble database.
func NewStore(db *pebblestore.DB) *Store { return &Store{db: db} }

// Record writes an entry. The ID and timestamp are filled in when zero.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.AtMs == 0 {
		e.AtMs = time.Now().UnixMilli()
	}
	val, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Set(entryKey(e.AtMs, e.ID), val)
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix(),
		UpperBound: keyPrefixEnd(),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	out := make([]Entry, 0, limit)
	for ok := iter.Last(); ok && len(out) < limit; ok = iter.Prev() {
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
