package lru

import (
	"strconv"
	"testing"
)

func TestListOrder(t *testing.T) {
	l := NewList[int]()
	a := l.PushFront(1)
	l.PushFront(2)
	c := l.PushFront(3)

	if l.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", l.Len())
	}
	if got := l.Oldest().Key; got != 1 {
		t.Errorf("expected oldest 1, got %d", got)
	}

	l.MoveToFront(a)
	if got := l.Oldest().Key; got != 2 {
		t.Errorf("expected oldest 2 after touching 1, got %d", got)
	}
	if got := l.Newer(l.Oldest()).Key; got != 3 {
		t.Errorf("expected 3 after 2, got %d", got)
	}

	l.Remove(c)
	l.Remove(l.Oldest())
	if l.Len() != 1 || l.Oldest() != a {
		t.Errorf("expected only node 1 left, len=%d", l.Len())
	}
	if l.Newer(a) != nil {
		t.Error("expected head to have no newer node")
	}

	l.Clear()
	if l.Len() != 0 || l.Oldest() != nil {
		t.Error("expected empty list after Clear")
	}
}

func TestCacheEviction(t *testing.T) {
	c := New[string, int](3)
	for i := 0; i < 3; i++ {
		c.Put(strconv.Itoa(i), i)
	}

	// Touch "0" so "1" becomes the oldest.
	if v, ok := c.Get("0"); !ok || v != 0 {
		t.Fatalf("expected 0, got %d (%v)", v, ok)
	}
	c.Put("3", 3)

	if _, ok := c.Get("1"); ok {
		t.Error("expected key 1 to be evicted")
	}
	for _, k := range []string{"0", "2", "3"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected key %s to survive", k)
		}
	}

	stats := c.Stats()
	if stats.Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", stats.Evictions)
	}
	if stats.Len != 3 || stats.Capacity != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestCacheTake(t *testing.T) {
	c := New[int, string](2)
	c.Put(1, "a")

	v, ok := c.Take(1)
	if !ok || v != "a" {
		t.Fatalf("expected to take a, got %q (%v)", v, ok)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Take, got %d", c.Len())
	}
	if _, ok := c.Take(1); ok {
		t.Error("expected second Take to miss")
	}
}

func TestCacheDisabled(t *testing.T) {
	c := New[int, int](0)
	c.Put(1, 1)
	if c.Len() != 0 {
		t.Errorf("expected disabled cache to stay empty, got %d", c.Len())
	}
}

func TestCacheRemoveAndClear(t *testing.T) {
	c := New[int, int](4)
	c.Put(1, 1)
	c.Put(2, 2)
	c.Put(2, 20)

	if v, _ := c.Get(2); v != 20 {
		t.Errorf("expected updated value 20, got %d", v)
	}
	if !c.Remove(1) || c.Remove(1) {
		t.Error("expected Remove to report presence once")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected 0 entries after Clear, got %d", c.Len())
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[int, int](1000)
	for i := 0; i < 100; i++ {
		c.Put(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(i % 100)
	}
}
