package intern

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

type testMarker struct{}

type testKey struct {
	name  string
	width int32
}

type testData struct {
	key   testKey
	reset int
}

func (d *testData) ResetForReuse() { d.reset++ }

func build(k testKey) *testData { return &testData{key: k} }

func TestInternDeduplicates(t *testing.T) {
	in := NewInterner[testKey, int, testMarker](-1)

	a := in.Intern(testKey{"a", 1}, func() int { return 1 })
	a2 := in.Intern(testKey{"a", 1}, func() int {
		t.Error("data func must not run for an existing key")
		return 0
	})
	b := in.Intern(testKey{"a", 2}, nil)

	if a != a2 {
		t.Errorf("expected equal keys to share a handle, got %v and %v", a, a2)
	}
	if a == b {
		t.Errorf("expected distinct keys to get distinct handles, got %v", a)
	}
	if !a.IsValid() || (Handle[testMarker]{}).IsValid() {
		t.Error("expected issued handles valid and zero handle invalid")
	}
	if got := in.Data(a); got != 1 {
		t.Errorf("expected scene data 1, got %d", got)
	}

	updates := in.EndFrameAndGetPendingUpdates()
	if len(updates.Insertions) != 2 || len(updates.Removals) != 0 {
		t.Fatalf("expected 2 insertions, got %+v", updates)
	}
	if updates.Insertions[0].Key != (testKey{"a", 1}) {
		t.Errorf("expected insertions in intern order, got %+v", updates.Insertions)
	}

	if got := in.EndFrameAndGetPendingUpdates(); !got.IsEmpty() {
		t.Errorf("expected no updates on an idle frame, got %+v", got)
	}
}

func TestInternGarbageCollectsUnusedKeys(t *testing.T) {
	in := NewInterner[testKey, struct{}, testMarker](2)
	keep := testKey{"keep", 0}
	drop := testKey{"drop", 0}

	in.Intern(keep, nil)
	old := in.Intern(drop, nil)
	in.EndFrameAndGetPendingUpdates() // epoch 0

	for epoch := 1; epoch <= 2; epoch++ {
		in.Intern(keep, nil)
		if u := in.EndFrameAndGetPendingUpdates(); len(u.Removals) != 0 {
			t.Fatalf("epoch %d: expected drop to be retained, got %+v", epoch, u.Removals)
		}
	}

	in.Intern(keep, nil)
	u := in.EndFrameAndGetPendingUpdates() // epoch 3
	if len(u.Removals) != 1 || u.Removals[0].Index != old.Index() {
		t.Fatalf("expected drop to be removed, got %+v", u.Removals)
	}
	if in.Len() != 1 {
		t.Errorf("expected 1 live entry, got %d", in.Len())
	}

	// The freed index is reused with a new generation.
	fresh := in.Intern(testKey{"new", 0}, nil)
	if fresh.Index() != old.Index() {
		t.Errorf("expected index %d to be reused, got %d", old.Index(), fresh.Index())
	}
	if fresh.Generation() == old.Generation() {
		t.Error("expected reused index to get a new generation")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected Data with a stale handle to panic")
		}
	}()
	in.Data(old)
}

func TestInternRemovedHandleStaleBeforeReuse(t *testing.T) {
	in := NewInterner[testKey, int, testMarker](0)
	old := in.Intern(testKey{"a", 1}, func() int { return 7 })
	in.EndFrameAndGetPendingUpdates()

	u := in.EndFrameAndGetPendingUpdates()
	if len(u.Removals) != 1 || u.Removals[0].Generation != old.Generation() {
		t.Fatalf("expected removal of %v, got %+v", old, u.Removals)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected Data with a removed handle to panic before its index is reused")
		}
	}()
	in.Data(old)
}

func TestDataStoreApplyUpdates(t *testing.T) {
	in := NewInterner[testKey, struct{}, testMarker](0)
	store := NewDataStore[testKey, *testData, testMarker](0)

	h := in.Intern(testKey{"a", 1}, nil)
	store.ApplyUpdates(in.EndFrameAndGetPendingUpdates(), build)

	d := store.Get(h)
	if d.key != (testKey{"a", 1}) {
		t.Errorf("expected data built from key, got %+v", d.key)
	}
	if k, ok := store.Key(h); !ok || k != d.key {
		t.Errorf("expected Key to return the interned key, got %+v", k)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 live entry, got %d", store.Len())
	}

	// Not interned this frame: retain=0 removes it.
	store.ApplyUpdates(in.EndFrameAndGetPendingUpdates(), build)
	if _, ok := store.Lookup(h); ok {
		t.Error("expected handle to be stale after removal")
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Get with a stale handle to panic")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "stale handle") {
			t.Errorf("unexpected panic message %v", r)
		}
	}()
	store.Get(h)
}

func TestDataStoreReusesRemovedEntries(t *testing.T) {
	in := NewInterner[testKey, struct{}, testMarker](0)
	store := NewDataStore[testKey, *testData, testMarker](4)
	key := testKey{"a", 1}

	builds := 0
	counting := func(k testKey) *testData {
		builds++
		return build(k)
	}

	h1 := in.Intern(key, nil)
	store.ApplyUpdates(in.EndFrameAndGetPendingUpdates(), counting)
	first := store.Get(h1)

	store.ApplyUpdates(in.EndFrameAndGetPendingUpdates(), counting) // removed
	if first.reset != 1 {
		t.Errorf("expected removed data to be reset once, got %d", first.reset)
	}

	h2 := in.Intern(key, nil)
	store.ApplyUpdates(in.EndFrameAndGetPendingUpdates(), counting)

	if builds != 1 {
		t.Errorf("expected one build, got %d", builds)
	}
	if store.Get(h2) != first {
		t.Error("expected re-interned key to reuse the retired data")
	}
	stats := store.Stats()
	if stats.Built != 1 || stats.Reused != 1 || stats.Live != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestDataStoreApplyUpdatesParallel(t *testing.T) {
	in := NewInterner[testKey, struct{}, testMarker](-1)
	store := NewDataStore[testKey, *testData, testMarker](0)

	handles := make([]Handle[testMarker], 64)
	for i := range handles {
		handles[i] = in.Intern(testKey{"k", int32(i)}, nil)
	}

	var calls atomic.Int32
	err := store.ApplyUpdatesParallel(context.Background(), in.EndFrameAndGetPendingUpdates(), func(k testKey) *testData {
		calls.Add(1)
		return build(k)
	}, 4)
	if err != nil {
		t.Fatalf("ApplyUpdatesParallel() = %v", err)
	}
	if calls.Load() != 64 {
		t.Errorf("expected 64 builds, got %d", calls.Load())
	}
	for i, h := range handles {
		if got := store.Get(h).key.width; got != int32(i) {
			t.Errorf("handle %d: expected width %d, got %d", i, i, got)
		}
	}
}

func TestDataStoreApplyUpdatesParallelCancelled(t *testing.T) {
	in := NewInterner[testKey, struct{}, testMarker](-1)
	store := NewDataStore[testKey, *testData, testMarker](0)
	in.Intern(testKey{"a", 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.ApplyUpdatesParallel(ctx, in.EndFrameAndGetPendingUpdates(), build, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected store untouched on cancellation, got %d entries", store.Len())
	}
}

func BenchmarkIntern(b *testing.B) {
	in := NewInterner[testKey, struct{}, testMarker](-1)
	keys := make([]testKey, 256)
	for i := range keys {
		keys[i] = testKey{"bench", int32(i)}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in.Intern(keys[i%len(keys)], nil)
	}
}
