package chatsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	cfgpkg "github.com/Ailysom/ras-chat/internal/config"
	"github.com/Ailysom/ras-chat/internal/ringlog"
	"github.com/Ailysom/ras-chat/internal/runtime"
	logpkg "github.com/Ailysom/ras-chat/pkg/log"
)

const (
	testWriteRole = uint32(0b01)
	testReadRole  = uint32(0b10)
)

func newTestService(t *testing.T, capacity int) (*Service, *runtime.Runtime) {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Capacity = capacity
	cfg.MaxMessageBytes = 64
	cfg.WriteRole = testWriteRole
	cfg.ReadRole = testReadRole
	cfg.Auth.Secret = "test-secret"
	rt, err := runtime.Open(runtime.Options{Config: cfg})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	logger, _ := logpkg.ApplyConfig(&logpkg.Config{Level: "error", Format: "text"})
	return NewWithLogger(rt, logger), rt
}

func mintToken(t *testing.T, rt *runtime.Runtime, subject string, roles uint32) string {
	t.Helper()
	tok, err := rt.Verifier().Issue(subject, roles)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func TestPing(t *testing.T) {
	s, _ := newTestService(t, 4)
	if got := s.Ping(); got != "pong" {
		t.Fatalf("ping: %q", got)
	}
}

func TestAppendThenSnapshotAll(t *testing.T) {
	s, rt := newTestService(t, 4)
	ctx := context.Background()
	writer := mintToken(t, rt, "alice", testWriteRole)
	reader := mintToken(t, rt, "bob", testReadRole)

	if err := s.Append(ctx, writer, "hello"); err != nil {
		t.Fatalf("append: %v", err)
	}
	msgs, err := s.SnapshotAll(ctx, reader, "")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("want capacity entries, got %d", len(msgs))
	}
	newest := msgs[len(msgs)-1]
	if newest.Value != "hello" || !strings.HasPrefix(newest.Key, "alice") {
		t.Fatalf("newest entry wrong: %+v", newest)
	}
}

func TestAppendRejectsBadToken(t *testing.T) {
	s, _ := newTestService(t, 4)
	ctx := context.Background()
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if err := s.Append(ctx, tok, "x"); !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("token %q: want ErrAuthenticationFailed, got %v", tok, err)
		}
	}
}

func TestAppendRejectsExpiredToken(t *testing.T) {
	s, rt := newTestService(t, 4)
	tok, err := rt.Verifier().IssueWithTTL("alice", testWriteRole, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := s.Append(context.Background(), tok, "x"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("want ErrAuthenticationFailed, got %v", err)
	}
}

func TestRoleGating(t *testing.T) {
	s, rt := newTestService(t, 4)
	ctx := context.Background()
	readerOnly := mintToken(t, rt, "bob", testReadRole)
	writerOnly := mintToken(t, rt, "alice", testWriteRole)
	both := mintToken(t, rt, "carol", testWriteRole|testReadRole)

	if err := s.Append(ctx, readerOnly, "x"); !errors.Is(err, ErrAuthorizationDenied) {
		t.Fatalf("reader appending: want ErrAuthorizationDenied, got %v", err)
	}
	if _, err := s.SnapshotAll(ctx, writerOnly, ""); !errors.Is(err, ErrAuthorizationDenied) {
		t.Fatalf("writer reading: want ErrAuthorizationDenied, got %v", err)
	}
	if _, err := s.SnapshotFrom(ctx, writerOnly, "k", ""); !errors.Is(err, ErrAuthorizationDenied) {
		t.Fatalf("writer from-reading: want ErrAuthorizationDenied, got %v", err)
	}
	if err := s.Append(ctx, both, "x"); err != nil {
		t.Fatalf("dual-role append: %v", err)
	}
	if _, err := s.SnapshotAll(ctx, both, ""); err != nil {
		t.Fatalf("dual-role read: %v", err)
	}
}

func TestDeniedAppendNeverTouchesRing(t *testing.T) {
	s, rt := newTestService(t, 3)
	ctx := context.Background()
	reader := mintToken(t, rt, "bob", testReadRole)
	before, _ := s.SnapshotAll(ctx, reader, "")
	_ = s.Append(ctx, reader, "should not land")
	after, _ := s.SnapshotAll(ctx, reader, "")
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("denied append mutated the ring")
		}
	}
}

func TestAppendTooLongPassesThrough(t *testing.T) {
	s, rt := newTestService(t, 4)
	ctx := context.Background()
	writer := mintToken(t, rt, "alice", testWriteRole)
	err := s.Append(ctx, writer, strings.Repeat("x", 64))
	if !errors.Is(err, ringlog.ErrMessageTooLong) {
		t.Fatalf("want ErrMessageTooLong, got %v", err)
	}
}

func TestSnapshotFromMarkerSemantics(t *testing.T) {
	s, rt := newTestService(t, 5)
	ctx := context.Background()
	writer := mintToken(t, rt, "w", testWriteRole)
	reader := mintToken(t, rt, "r", testReadRole)

	base := NowMs()
	var i int64
	old := NowMs
	NowMs = func() int64 { i++; return base + i } // distinct keys per append
	t.Cleanup(func() { NowMs = old })

	for n := 0; n < 5; n++ {
		if err := s.Append(ctx, writer, fmt.Sprintf("m%d", n+1)); err != nil {
			t.Fatalf("append %d: %v", n, err)
		}
	}
	all, err := s.SnapshotAll(ctx, reader, "")
	if err != nil {
		t.Fatalf("snapshot all: %v", err)
	}
	from, err := s.SnapshotFrom(ctx, reader, all[2].Key, "")
	if err != nil {
		t.Fatalf("snapshot from: %v", err)
	}
	if len(from) != 3 || from[0].Value != "m3" || from[2].Value != "m5" {
		t.Fatalf("inclusive from-scan wrong: %+v", from)
	}
	// the oldest surviving entry can never act as a marker
	fromOldest, err := s.SnapshotFrom(ctx, reader, all[0].Key, "")
	if err != nil {
		t.Fatalf("snapshot from oldest: %v", err)
	}
	if len(fromOldest) != 0 {
		t.Fatalf("oldest-slot marker must yield empty, got %+v", fromOldest)
	}
	// unknown marker is empty, not an error
	unknown, err := s.SnapshotFrom(ctx, reader, "nonexistent", "")
	if err != nil || len(unknown) != 0 {
		t.Fatalf("unknown marker: %v %v", unknown, err)
	}
}

func TestSnapshotFilter(t *testing.T) {
	s, rt := newTestService(t, 8)
	ctx := context.Background()
	writer := mintToken(t, rt, "alice", testWriteRole)
	reader := mintToken(t, rt, "bob", testReadRole)
	for _, v := range []string{"apple", "banana", "apricot"} {
		if err := s.Append(ctx, writer, v); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	msgs, err := s.SnapshotAll(ctx, reader, `value.startsWith("ap")`)
	if err != nil {
		t.Fatalf("filtered snapshot: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("want 2 matches, got %+v", msgs)
	}
	if _, err := s.SnapshotAll(ctx, reader, "this is not CEL ((("); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("malformed filter: want ErrBadRequest, got %v", err)
	}
}

func TestCloseMakesServiceUnavailable(t *testing.T) {
	s, rt := newTestService(t, 4)
	ctx := context.Background()
	writer := mintToken(t, rt, "alice", testWriteRole)
	reader := mintToken(t, rt, "bob", testReadRole)
	s.Close()
	if err := s.Append(ctx, writer, "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("append after close: want ErrUnavailable, got %v", err)
	}
	if _, err := s.SnapshotAll(ctx, reader, ""); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("snapshot after close: want ErrUnavailable, got %v", err)
	}
}

func TestConcurrentAppendsLandIntact(t *testing.T) {
	const capacity = 64
	const writers = 32
	s, rt := newTestService(t, capacity)
	ctx := context.Background()
	reader := mintToken(t, rt, "r", testReadRole)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tok := mintToken(t, rt, fmt.Sprintf("user%02d", n), testWriteRole)
			if err := s.Append(ctx, tok, fmt.Sprintf("payload-%02d", n)); err != nil {
				t.Errorf("append %d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	msgs, err := s.SnapshotAll(ctx, reader, "")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	seen := map[string]bool{}
	for _, m := range msgs {
		if m.Key == "" {
			continue // placeholder
		}
		// every stored value is exactly one writer's payload, untorn
		if !strings.HasPrefix(m.Value, "payload-") || len(m.Value) != len("payload-00") {
			t.Fatalf("torn or corrupt message: %+v", m)
		}
		seen[m.Value] = true
	}
	if len(seen) != writers {
		t.Fatalf("want %d distinct messages, got %d", writers, len(seen))
	}
}

func TestAuditRecentDisabledReturnsEmpty(t *testing.T) {
	s, rt := newTestService(t, 4)
	reader := mintToken(t, rt, "bob", testReadRole)
	got, err := s.AuditRecent(context.Background(), reader, 10)
	if err != nil {
		t.Fatalf("audit recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty trail when auditing disabled")
	}
}

func TestAuditTrailRecordsOutcomes(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Capacity = 4
	cfg.WriteRole = testWriteRole
	cfg.ReadRole = testReadRole
	cfg.Auth.Secret = "test-secret"
	cfg.AuditDir = t.TempDir()
	rt, err := runtime.Open(runtime.Options{Config: cfg})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	logger, _ := logpkg.ApplyConfig(&logpkg.Config{Level: "error", Format: "text"})
	s := NewWithLogger(rt, logger)
	ctx := context.Background()

	writer := mintToken(t, rt, "alice", testWriteRole)
	reader := mintToken(t, rt, "bob", testReadRole)
	if err := s.Append(ctx, writer, "hello"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = s.Append(ctx, reader, "denied") // authorization denial, also audited

	entries, err := s.AuditRecent(ctx, reader, 10)
	if err != nil {
		t.Fatalf("audit recent: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("want at least 2 audit entries, got %d", len(entries))
	}
	var sawOK, sawDenied bool
	for _, e := range entries {
		if e.Op == "append" && e.Outcome == "ok" && e.Subject == "alice" {
			sawOK = true
		}
		if e.Op == "append" && e.Outcome == "denied" && e.Subject == "bob" {
			sawDenied = true
		}
	}
	if !sawOK || !sawDenied {
		t.Fatalf("missing expected audit entries: %+v", entries)
	}
}
