// Package primcache is a content-addressed cache for GPU-ready border
// primitive data.
//
// # Overview
//
// Scene building describes each border as an immutable key (style plus
// geometry, quantized to fixed point). Identical keys are interned once,
// the derived template (segment decomposition, opacity, GPU block layout)
// is built once per unique key, and every frame the template's GPU cache
// slot is repopulated only when it was evicted or newly allocated.
//
// # Packages
//
//   - geom, color: layout geometry and colours, with quantized key forms
//   - border: border styles, normalization, segment and nine-patch builders
//   - segment: brush segments consumed by the segment shader path
//   - intern: deduplicating interner and template data store
//   - gpucache: block arena with request/finish population protocol
//   - resource: image resource cache (properties, decoding, requests)
//   - prim: border keys, templates and the per-frame update protocol
//   - frame: scene and frame building on top of the above
//   - capture: lz4-compressed YAML snapshots of interned state
//   - config: YAML configuration
//
// # Logging
//
// primcache is silent by default. Call [SetLogger] to enable logging for
// all sub-packages.
package primcache
