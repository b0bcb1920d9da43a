// Package lru provides the recency bookkeeping shared by the GPU cache and
// the template data store.
//
// [List] is an intrusive doubly-linked recency list: the GPU cache keeps a
// node per allocated slot and walks from the oldest end when it needs to
// evict. [Cache] is a bounded key/value map on top of List, used to keep
// recently retired templates around for reuse.
//
// Neither type is safe for concurrent use; owners synchronize.
package lru
