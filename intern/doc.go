// Package intern deduplicates immutable keys into stable handles and keeps
// the data derived from each unique key.
//
// The scene side owns an [Interner]: every [Interner.Intern] call returns the
// same [Handle] for equal keys. At the end of a scene build,
// [Interner.EndFrameAndGetPendingUpdates] garbage-collects keys that have not
// been interned for a number of builds and returns an [UpdateList] of the
// insertions and removals since the last call.
//
// The frame side owns a [DataStore]. Applying an update list builds the
// derived data for new keys and drops removed ones. Handles carry a
// generation so a handle to a removed entry is never mistaken for the entry
// that later reuses its index.
//
// The marker type parameter M makes handles of different stores distinct
// types; it carries no data.
package intern
