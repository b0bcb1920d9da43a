// Package prim defines the border primitive keys, the templates built from
// them and the per-frame update protocol that keeps each template's GPU
// cache slot populated.
//
// A key is the deduplication identity of a border: every geometric value
// is quantized to 1/64 px and every colour to 8 bits, so visually identical
// borders produce equal keys. A template is built once per unique key and
// shared by every instance that references it through a handle.
//
// Templates are populated lazily:
//
//	fs := &prim.FrameState{GPUCache: gpu, Resources: res}
//	for _, t := range referenced {
//	    t.Update(fs) // writes the slot only after creation or eviction
//	}
//
// The slot layout is fixed: two premultiplied white colour blocks, a
// [width, height, 0, 0] block, then two blocks (local rect, extra data) per
// brush segment in segment order.
package prim
