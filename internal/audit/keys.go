package audit

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - audit/e/{at_ms_be8}/{uuid}

var entryPrefix = []byte("audit/e/")

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func entryKey(atMs int64, id uuid.UUID) []byte {
	k := make([]byte, 0, len(entryPrefix)+8+1+16)
	k = append(k, entryPrefix...)
	k = appendBE8(k, uint64(atMs))
	k = append(k, '/')
	k = append(k, id[:]...)
	return k
}

func keyPrefix() []byte { return entryPrefix }

// keyPrefixEnd is the exclusive upper bound for entry scans: the prefix with
// its last byte bumped.
func keyPrefixEnd() []byte {
	end := append([]byte(nil), entryPrefix...)
	end[len(end)-1]++
	return end
}
