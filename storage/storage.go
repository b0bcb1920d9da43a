// Package storage provides typed indices and ranges into per-frame
// element lists. Instances use them to refer to lists kept outside the
// instance itself, such as segment GPU cache handles.
package storage

import "fmt"

// Index addresses one element of a list of T.
type Index[T any] uint32

// Range addresses a contiguous run of elements [Start, End).
// The zero Range is empty.
type Range[T any] struct {
	Start, End Index[T]
}

// EmptyRange returns a range with no elements.
func EmptyRange[T any]() Range[T] {
	return Range[T]{}
}

// IsEmpty reports whether the range holds no elements.
func (r Range[T]) IsEmpty() bool {
	return r.End <= r.Start
}

// Len returns the number of elements in the range.
func (r Range[T]) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return int(r.End - r.Start)
}

func (r Range[T]) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
