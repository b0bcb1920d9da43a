package intern

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/primcache/internal/lru"
)

// Reusable is implemented by stored data that can be kept after its key is
// removed and handed back if the same key is interned again. ResetForReuse
// must drop state resolved per frame, such as opacity.
type Reusable interface {
	ResetForReuse()
}

// DataStore holds the data built from interned keys, indexed by handle.
// It is not safe for concurrent use: frame building owns it.
type DataStore[K comparable, T any, M any] struct {
	items []storeItem[K, T]
	live  int
	reuse *lru.Cache[K, T]

	built  uint64
	reused uint64
}

type storeItem[K comparable, T any] struct {
	key        K
	data       T
	generation uint32
	live       bool
}

// StoreStats reports how a store's entries were produced.
type StoreStats struct {
	Live   int
	Built  uint64
	Reused uint64
	// Retained is the number of removed entries kept for reuse.
	Retained int
}

// NewDataStore creates a store. Up to reuseCapacity removed entries are kept
// for reuse when their data implements Reusable; zero disables reuse.
func NewDataStore[K comparable, T any, M any](reuseCapacity int) *DataStore[K, T, M] {
	return &DataStore[K, T, M]{
		reuse: lru.New[K, T](reuseCapacity),
	}
}

// ApplyUpdates removes and inserts entries. build is called once for every
// inserted key that cannot be served from the reuse cache.
func (s *DataStore[K, T, M]) ApplyUpdates(list UpdateList[K], build func(K) T) {
	s.applyRemovals(list.Removals)
	for _, ins := range list.Insertions {
		data, ok := s.takeReusable(ins.Key)
		if !ok {
			data = build(ins.Key)
			s.built++
		}
		s.insert(ins, data)
	}
}

// ApplyUpdatesParallel is ApplyUpdates with the build calls spread over at
// most limit goroutines (limit <= 0 means no limit). build must be safe for
// concurrent use. The store itself is only modified on the calling
// goroutine, after every build has finished. On cancellation the store is
// left unchanged and the context error is returned.
func (s *DataStore[K, T, M]) ApplyUpdatesParallel(
	ctx context.Context,
	list UpdateList[K],
	build func(K) T,
	limit int,
) error {
	data := make([]T, len(list.Insertions))
	have := make([]bool, len(list.Insertions))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for n, ins := range list.Insertions {
		if _, ok := s.reuse.Get(ins.Key); ok {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data[n] = build(ins.Key)
			have[n] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.applyRemovals(list.Removals)
	for n, ins := range list.Insertions {
		d := data[n]
		if have[n] {
			s.built++
		} else if r, ok := s.takeReusable(ins.Key); ok {
			d = r
		} else {
			// Evicted from the reuse cache by a removal above.
			d = build(ins.Key)
			s.built++
		}
		s.insert(ins, d)
	}
	return nil
}

func (s *DataStore[K, T, M]) applyRemovals(removals []Removal) {
	for _, rem := range removals {
		if int(rem.Index) >= len(s.items) {
			continue
		}
		item := &s.items[rem.Index]
		if !item.live || item.generation != rem.Generation {
			continue
		}
		if r, ok := any(item.data).(Reusable); ok {
			r.ResetForReuse()
			s.reuse.Put(item.key, item.data)
		}
		var zero T
		item.data = zero
		item.live = false
		s.live--
	}
}

func (s *DataStore[K, T, M]) takeReusable(key K) (T, bool) {
	d, ok := s.reuse.Take(key)
	if ok {
		s.reused++
	}
	return d, ok
}

func (s *DataStore[K, T, M]) insert(ins Insertion[K], data T) {
	for int(ins.Index) >= len(s.items) {
		s.items = append(s.items, storeItem[K, T]{})
	}
	item := &s.items[ins.Index]
	if item.live {
		panic("intern: insertion into live slot " + Handle[M]{index: ins.Index, generation: item.generation}.String())
	}
	*item = storeItem[K, T]{key: ins.Key, data: data, generation: ins.Generation, live: true}
	s.live++
}

// Get returns the data for a handle. It panics if the handle is stale:
// using a handle after its entry was removed is a programming error.
func (s *DataStore[K, T, M]) Get(h Handle[M]) T {
	d, ok := s.Lookup(h)
	if !ok {
		panic("intern: stale handle " + h.String())
	}
	return d
}

// Lookup returns the data for a handle and whether the handle is live.
func (s *DataStore[K, T, M]) Lookup(h Handle[M]) (T, bool) {
	if int(h.index) < len(s.items) {
		item := &s.items[h.index]
		if item.live && item.generation == h.generation {
			return item.data, true
		}
	}
	var zero T
	return zero, false
}

// Key returns the key a live handle was built from.
func (s *DataStore[K, T, M]) Key(h Handle[M]) (K, bool) {
	if int(h.index) < len(s.items) {
		item := &s.items[h.index]
		if item.live && item.generation == h.generation {
			return item.key, true
		}
	}
	var zero K
	return zero, false
}

// Each calls fn for every live entry in index order.
func (s *DataStore[K, T, M]) Each(fn func(Handle[M], T)) {
	for i := range s.items {
		item := &s.items[i]
		if item.live {
			fn(Handle[M]{index: uint32(i), generation: item.generation}, item.data)
		}
	}
}

// Len returns the number of live entries.
func (s *DataStore[K, T, M]) Len() int {
	return s.live
}

// Stats returns build and reuse counters.
func (s *DataStore[K, T, M]) Stats() StoreStats {
	return StoreStats{
		Live:     s.live,
		Built:    s.built,
		Reused:   s.reused,
		Retained: s.reuse.Len(),
	}
}
