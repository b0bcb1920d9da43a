package intern

import "sort"

// DefaultRetainFrames is how many scene builds an entry survives without
// being interned.
const DefaultRetainFrames = 10

// Interner maps keys to handles. It is not safe for concurrent use: scene
// building owns it.
type Interner[K comparable, D any, M any] struct {
	entries      map[K]*internEntry[M]
	localData    []D
	generations  []uint32
	freeList     []uint32
	pending      UpdateList[K]
	currentEpoch Epoch
	retainFrames uint64
}

type internEntry[M any] struct {
	handle   Handle[M]
	lastUsed Epoch
}

// NewInterner creates an interner that drops entries unused for more than
// retainFrames scene builds. A negative value selects DefaultRetainFrames.
func NewInterner[K comparable, D any, M any](retainFrames int) *Interner[K, D, M] {
	if retainFrames < 0 {
		retainFrames = DefaultRetainFrames
	}
	return &Interner[K, D, M]{
		entries:      make(map[K]*internEntry[M]),
		retainFrames: uint64(retainFrames),
	}
}

// Intern returns the handle for key, creating an entry when the key is new.
// data is called only for new keys; its result is the scene-side data kept
// alongside the entry.
func (i *Interner[K, D, M]) Intern(key K, data func() D) Handle[M] {
	if e, ok := i.entries[key]; ok {
		e.lastUsed = i.currentEpoch
		return e.handle
	}

	var index uint32
	if n := len(i.freeList); n > 0 {
		index = i.freeList[n-1]
		i.freeList = i.freeList[:n-1]
	} else {
		index = uint32(len(i.generations))
		i.generations = append(i.generations, 1)
		var zero D
		i.localData = append(i.localData, zero)
	}

	h := Handle[M]{index: index, generation: i.generations[index]}

	var d D
	if data != nil {
		d = data()
	}
	i.localData[index] = d
	i.entries[key] = &internEntry[M]{handle: h, lastUsed: i.currentEpoch}
	i.pending.Insertions = append(i.pending.Insertions, Insertion[K]{
		Index:      index,
		Generation: h.generation,
		Key:        key,
	})
	return h
}

// Data returns the scene-side data of a live handle.
// It panics if the handle is stale, whether or not its index was reused.
func (i *Interner[K, D, M]) Data(h Handle[M]) D {
	if int(h.index) >= len(i.generations) || i.generations[h.index] != h.generation {
		panic("intern: stale handle " + h.String())
	}
	return i.localData[h.index]
}

// EndFrameAndGetPendingUpdates finishes a scene build. Entries not interned
// during the last retainFrames+1 builds are removed and their indices
// recycled. A removed index moves to its next generation at once, so
// handles to it go stale before the index is reused. It returns every insertion and removal since the previous call.
func (i *Interner[K, D, M]) EndFrameAndGetPendingUpdates() UpdateList[K] {
	updates := i.pending
	i.pending = UpdateList[K]{}

	for key, e := range i.entries {
		if uint64(e.lastUsed)+i.retainFrames >= uint64(i.currentEpoch) {
			continue
		}
		delete(i.entries, key)
		var zero D
		i.localData[e.handle.index] = zero
		i.generations[e.handle.index]++
		updates.Removals = append(updates.Removals, Removal{
			Index:      e.handle.index,
			Generation: e.handle.generation,
		})
	}

	// Map iteration order is random; keep removal order and index reuse
	// deterministic.
	sort.Slice(updates.Removals, func(a, b int) bool {
		return updates.Removals[a].Index < updates.Removals[b].Index
	})
	for n := len(updates.Removals) - 1; n >= 0; n-- {
		i.freeList = append(i.freeList, updates.Removals[n].Index)
	}

	i.currentEpoch++
	return updates
}

// Len returns the number of live entries.
func (i *Interner[K, D, M]) Len() int {
	return len(i.entries)
}

// CurrentEpoch returns the epoch of the scene build in progress.
func (i *Interner[K, D, M]) CurrentEpoch() Epoch {
	return i.currentEpoch
}
