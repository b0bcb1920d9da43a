package geom

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// AuPerPx is the number of fixed-point units in one layout pixel.
const AuPerPx = 64

// ToAu quantizes a layout value to 1/64 px, rounding half away from zero.
func ToAu(v float32) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(float64(v) * AuPerPx))
}

// FromAu converts a quantized value back to layout pixels.
func FromAu(v fixed.Int26_6) float32 {
	return float32(v) / AuPerPx
}

// PointAu is the quantized form of Point.
type PointAu struct {
	X, Y fixed.Int26_6
}

// SizeAu is the quantized form of Size.
type SizeAu struct {
	Width, Height fixed.Int26_6
}

// RectAu is the quantized form of Rect.
type RectAu struct {
	Origin PointAu
	Size   SizeAu
}

// SideOffsetsAu is the quantized form of SideOffsets.
type SideOffsetsAu struct {
	Top, Right, Bottom, Left fixed.Int26_6
}

// Au quantizes the point.
func (p Point) Au() PointAu {
	return PointAu{X: ToAu(p.X), Y: ToAu(p.Y)}
}

// Point converts back to layout pixels.
func (p PointAu) Point() Point {
	return Point{X: FromAu(p.X), Y: FromAu(p.Y)}
}

// Au quantizes the size.
func (s Size) Au() SizeAu {
	return SizeAu{Width: ToAu(s.Width), Height: ToAu(s.Height)}
}

// Size converts back to layout pixels.
func (s SizeAu) Size() Size {
	return Size{Width: FromAu(s.Width), Height: FromAu(s.Height)}
}

// Au quantizes the rectangle.
func (r Rect) Au() RectAu {
	return RectAu{Origin: r.Origin.Au(), Size: r.Size.Au()}
}

// Rect converts back to layout pixels.
func (r RectAu) Rect() Rect {
	return Rect{Origin: r.Origin.Point(), Size: r.Size.Size()}
}

// Au quantizes the side offsets.
func (s SideOffsets) Au() SideOffsetsAu {
	return SideOffsetsAu{
		Top:    ToAu(s.Top),
		Right:  ToAu(s.Right),
		Bottom: ToAu(s.Bottom),
		Left:   ToAu(s.Left),
	}
}

// SideOffsets converts back to layout pixels.
func (s SideOffsetsAu) SideOffsets() SideOffsets {
	return SideOffsets{
		Top:    FromAu(s.Top),
		Right:  FromAu(s.Right),
		Bottom: FromAu(s.Bottom),
		Left:   FromAu(s.Left),
	}
}
