// Package geom provides layout-space geometry for border primitives.
//
// Float types ([Point], [Size], [Rect], [SideOffsets]) are used for
// computation. The Au types ([SizeAu], [RectAu], [SideOffsetsAu]) are
// their quantized forms: every coordinate is a [fixed.Int26_6] (1/64 px).
// Keys store only the quantized forms so that visually identical inputs
// that differ below 1/64 px compare equal and hash identically.
package geom
