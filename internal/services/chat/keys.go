package chatsvc

import (
	"strconv"
	"sync"
	"time"
)

// MessageKey derives the stored key for an append: the authenticated subject
// concatenated with a millisecond timestamp. Keys are conventionally unique
// but the ring does not enforce it; a subject appending twice within the
// same millisecond produces duplicate keys, which the from-scan resolves by
// first occurrence.
func MessageKey(subject string, nowMs int64) string {
	return subject + strconv.FormatInt(nowMs, 10)
}

// msClock yields millisecond timestamps that never go backwards within the
// process, shielding keys from wall-clock regressions.
type msClock struct {
	mu   sync.Mutex
	last int64
}

// NowMs returns the current time in milliseconds since the Unix epoch.
// A test hook, replaceable like time.Now.
var NowMs = func() int64 { return time.Now().UnixMilli() }

func (c *msClock) nowMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ms := NowMs()
	if ms < c.last {
		ms = c.last
	}
	c.last = ms
	return ms
}
