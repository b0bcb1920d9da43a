// Package gpucache stores per-primitive GPU data as fixed-size blocks in a
// texture-shaped arena.
//
// A block is four float32 values ([Block], an mgl32.Vec4). Blocks live in
// rows of [RowWidth]; every row is dedicated to one power-of-two slot size
// so allocation and freeing never fragment a row.
//
// # Population protocol
//
// Owners keep a [Handle] per primitive and, every frame, call
// [Cache.Request]. A nil result means the slot still holds valid data. A
// non-nil [Request] means the slot is new or was evicted: the owner pushes
// every block and calls [Request.Finish], which commits the blocks in one
// step. A slot is never observed half written.
//
//	if req := cache.Request(&handle); req != nil {
//	    req.PushColor(color.PremultipliedWhite)
//	    req.WriteSegment(rect, extra)
//	    req.Finish()
//	}
//
// # Eviction
//
// At [Cache.EndFrame], when the arena holds more than the configured block
// budget, slots that have not been requested for EvictAfterFrames frames
// are freed, least recently used first. Their handles become stale and the
// next Request returns a writer.
package gpucache
