package intern

import "fmt"

// Epoch counts scene builds.
type Epoch uint64

// Handle is a stable reference to an interned entry.
// The zero Handle is invalid.
type Handle[M any] struct {
	index      uint32
	generation uint32
}

// Index returns the slot index of the entry.
func (h Handle[M]) Index() uint32 { return h.index }

// Generation returns the generation of the slot when the handle was issued.
func (h Handle[M]) Generation() uint32 { return h.generation }

// IsValid reports whether the handle was issued by an interner.
func (h Handle[M]) IsValid() bool { return h.generation != 0 }

func (h Handle[M]) String() string {
	return fmt.Sprintf("%d@%d", h.index, h.generation)
}

// Insertion records a key interned for the first time.
type Insertion[K any] struct {
	Index      uint32
	Generation uint32
	Key        K
}

// Removal records an entry garbage-collected by the interner.
type Removal struct {
	Index      uint32
	Generation uint32
}

// UpdateList is the set of changes an interner made since its previous
// EndFrameAndGetPendingUpdates call. Removals are sorted by index.
type UpdateList[K any] struct {
	Insertions []Insertion[K]
	Removals   []Removal
}

// IsEmpty reports whether the list carries no changes.
func (u UpdateList[K]) IsEmpty() bool {
	return len(u.Insertions) == 0 && len(u.Removals) == 0
}
