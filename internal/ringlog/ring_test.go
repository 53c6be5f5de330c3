package ringlog

import (
	"fmt"
	"strings"
	"testing"
)

func newTestRing(t *testing.T, capacity, maxLen int) *Ring {
	t.Helper()
	r, err := New(capacity, maxLen)
	if err != nil {
		t.Fatalf("new ring: %v", err)
	}
	return r
}

func keysOf(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Key
	}
	return out
}

func TestNewRejectsBadSizes(t *testing.T) {
	if _, err := New(0, 10); err == nil {
		t.Fatalf("expected error for zero capacity")
	}
	if _, err := New(-1, 10); err == nil {
		t.Fatalf("expected error for negative capacity")
	}
	if _, err := New(4, 0); err == nil {
		t.Fatalf("expected error for zero max length")
	}
}

func TestSnapshotAllAlwaysCapacityEntries(t *testing.T) {
	for _, c := range []int{1, 2, 5, 8} {
		r := newTestRing(t, c, 64)
		for n := 0; n <= 2*c+1; n++ {
			got := r.SnapshotAll()
			if len(got) != c {
				t.Fatalf("capacity %d after %d appends: got %d entries", c, n, len(got))
			}
			if err := r.Append(fmt.Sprintf("k%d", n), "v"); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
	}
}

func TestPlaceholdersSurfacedBeforeFirstLap(t *testing.T) {
	r := newTestRing(t, 4, 64)
	_ = r.Append("k1", "v1")
	got := r.SnapshotAll()
	// one genuine message, three placeholders, oldest first
	if got[3].Key != "k1" || got[3].Value != "v1" {
		t.Fatalf("newest slot wrong: %+v", got)
	}
	for i := 0; i < 3; i++ {
		if got[i].Key != "" || got[i].Value != "" {
			t.Fatalf("slot %d should be a placeholder: %+v", i, got[i])
		}
	}
}

func TestOverwriteDropsOldest(t *testing.T) {
	const c = 3
	r := newTestRing(t, c, 64)
	for i := 1; i <= c+1; i++ {
		if err := r.Append(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	got := keysOf(r.SnapshotAll())
	want := []string{"k2", "k3", "k4"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after wrap: got %v want %v", got, want)
		}
	}
}

func TestOrderPreservedAcrossWraps(t *testing.T) {
	const c = 5
	r := newTestRing(t, c, 64)
	total := 17
	for i := 1; i <= total; i++ {
		_ = r.Append(fmt.Sprintf("k%d", i), "v")
	}
	got := keysOf(r.SnapshotAll())
	for i := 0; i < c; i++ {
		want := fmt.Sprintf("k%d", total-c+1+i)
		if got[i] != want {
			t.Fatalf("position %d: got %q want %q (all: %v)", i, got[i], want, got)
		}
	}
}

func TestAppendRejectsLongValue(t *testing.T) {
	r := newTestRing(t, 3, 8)
	before := r.SnapshotAll()
	// exactly maxValueLen bytes is already too long (strict less-than)
	if err := r.Append("k", strings.Repeat("x", 8)); err != ErrMessageTooLong {
		t.Fatalf("want ErrMessageTooLong, got %v", err)
	}
	if err := r.Append("k", strings.Repeat("x", 9)); err != ErrMessageTooLong {
		t.Fatalf("want ErrMessageTooLong, got %v", err)
	}
	after := r.SnapshotAll()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("rejected append mutated the ring")
		}
	}
	if err := r.Append("k", strings.Repeat("x", 7)); err != nil {
		t.Fatalf("append below bound: %v", err)
	}
}

func TestSnapshotFromInclusiveMatch(t *testing.T) {
	r := newTestRing(t, 5, 64)
	for i := 1; i <= 5; i++ {
		_ = r.Append(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
	}
	got := keysOf(r.SnapshotFrom("k3"))
	want := []string{"k3", "k4", "k5"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestSnapshotFromOldestSlotIsNeverMatched(t *testing.T) {
	r := newTestRing(t, 5, 64)
	for i := 1; i <= 5; i++ {
		_ = r.Append(fmt.Sprintf("k%d", i), "v")
	}
	// k1 is present in SnapshotAll but occupies the oldest slot, which the
	// scan terminates on before comparing.
	all := keysOf(r.SnapshotAll())
	if all[0] != "k1" {
		t.Fatalf("setup: oldest should be k1, got %v", all)
	}
	if got := r.SnapshotFrom("k1"); len(got) != 0 {
		t.Fatalf("marker in oldest slot must yield empty, got %v", keysOf(got))
	}
}

func TestSnapshotFromNewestSlot(t *testing.T) {
	r := newTestRing(t, 5, 64)
	for i := 1; i <= 5; i++ {
		_ = r.Append(fmt.Sprintf("k%d", i), "v")
	}
	got := keysOf(r.SnapshotFrom("k5"))
	if len(got) != 1 || got[0] != "k5" {
		t.Fatalf("want [k5], got %v", got)
	}
}

func TestSnapshotFromUnknownMarker(t *testing.T) {
	r := newTestRing(t, 4, 64)
	_ = r.Append("k1", "v1")
	_ = r.Append("k2", "v2")
	if got := r.SnapshotFrom("nonexistent"); len(got) != 0 {
		t.Fatalf("unknown marker must yield empty, got %v", keysOf(got))
	}
}

func TestSnapshotFromDuplicateKeysFirstOccurrenceWins(t *testing.T) {
	r := newTestRing(t, 5, 64)
	_ = r.Append("a", "1")
	_ = r.Append("dup", "2")
	_ = r.Append("b", "3")
	_ = r.Append("dup", "4")
	_ = r.Append("c", "5")
	got := r.SnapshotFrom("dup")
	want := []string{"2", "3", "4", "5"}
	if len(got) != len(want) {
		t.Fatalf("got %v want values %v", got, want)
	}
	for i := range want {
		if got[i].Value != want[i] {
			t.Fatalf("position %d: got %+v want value %q", i, got[i], want[i])
		}
	}
}

func TestSnapshotDoesNotAliasStorage(t *testing.T) {
	r := newTestRing(t, 3, 64)
	_ = r.Append("k1", "v1")
	snap := r.SnapshotAll()
	snap[0] = Message{Key: "mut", Value: "mut"}
	again := r.SnapshotAll()
	if again[0].Key == "mut" {
		t.Fatalf("snapshot aliases internal storage")
	}
}

func TestCapacityOneRing(t *testing.T) {
	r := newTestRing(t, 1, 64)
	_ = r.Append("k1", "v1")
	_ = r.Append("k2", "v2")
	got := r.SnapshotAll()
	if len(got) != 1 || got[0].Key != "k2" {
		t.Fatalf("capacity-1 ring: %v", got)
	}
	// the only slot is also the oldest slot, so markers never match
	if from := r.SnapshotFrom("k2"); len(from) != 0 {
		t.Fatalf("capacity-1 from-scan must be empty, got %v", keysOf(from))
	}
}
