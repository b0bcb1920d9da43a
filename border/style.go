// Package border describes normal (styled) and nine-patch image borders and
// decomposes them into brush segments.
//
// [CreateBorderSegments] and [NinePatchDescriptor.CreateSegments] are the
// default segment builders. Callers must [NormalBorder.Normalize] a border
// against its widths before decomposition.
package border

import (
	"fmt"

	"github.com/gogpu/primcache/color"
	"github.com/gogpu/primcache/geom"
)

// Style is a CSS border style.
type Style uint8

// Border styles.
const (
	StyleNone Style = iota
	StyleSolid
	StyleDouble
	StyleDotted
	StyleDashed
	StyleHidden
	StyleGroove
	StyleRidge
	StyleInset
	StyleOutset
)

var styleNames = [...]string{"none", "solid", "double", "dotted", "dashed", "hidden", "groove", "ridge", "inset", "outset"}

func (s Style) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("Style(%d)", uint8(s))
}

// ParseStyle returns the style with the given CSS name.
func ParseStyle(name string) (Style, error) {
	for i, n := range styleNames {
		if n == name {
			return Style(i), nil
		}
	}
	return StyleNone, fmt.Errorf("border: unknown style %q", name)
}

// IsVisible reports whether the style draws anything.
func (s Style) IsVisible() bool {
	return s != StyleNone && s != StyleHidden
}

// isRepeatable reports whether an edge of this style looks the same at
// every point along its length, so its render task can be one pixel long.
func (s Style) isRepeatable() bool {
	return s != StyleDotted && s != StyleDashed
}

// Side is the colour and style of one border side.
type Side struct {
	Color color.ColorF
	Style Style
}

// Radius holds the elliptical radii of the four corners.
type Radius struct {
	TopLeft, TopRight, BottomLeft, BottomRight geom.Size
}

// UniformRadius returns circular radii of r on every corner.
func UniformRadius(r float32) Radius {
	s := geom.Size{Width: r, Height: r}
	return Radius{TopLeft: s, TopRight: s, BottomLeft: s, BottomRight: s}
}

// IsZero reports whether every corner is square.
func (r Radius) IsZero() bool {
	return r.TopLeft.IsEmpty() && r.TopRight.IsEmpty() &&
		r.BottomLeft.IsEmpty() && r.BottomRight.IsEmpty()
}

// NormalBorder is a styled four-sided border.
type NormalBorder struct {
	Left, Right, Top, Bottom Side
	Radius                   Radius
	DoAA                     bool
}

// Uniform returns a border with the same side on all four edges.
func Uniform(side Side) NormalBorder {
	return NormalBorder{Left: side, Right: side, Top: side, Bottom: side, DoAA: true}
}

// Normalize resolves styles that cannot be drawn at the given widths:
// zero-width sides become StyleNone, double borders under 3px and
// groove/ridge borders under 2px become solid.
func (b *NormalBorder) Normalize(widths geom.SideOffsets) {
	normalizeSide(&b.Left, widths.Left)
	normalizeSide(&b.Right, widths.Right)
	normalizeSide(&b.Top, widths.Top)
	normalizeSide(&b.Bottom, widths.Bottom)
}

func normalizeSide(side *Side, width float32) {
	if width <= 0 {
		side.Style = StyleNone
		return
	}
	switch side.Style {
	case StyleDouble:
		if width < 3 {
			side.Style = StyleSolid
		}
	case StyleGroove, StyleRidge:
		if width < 2 {
			side.Style = StyleSolid
		}
	}
}

// Au returns the quantized form of the border.
func (b NormalBorder) Au() NormalBorderAu {
	return NormalBorderAu{
		Left:   b.Left.au(),
		Right:  b.Right.au(),
		Top:    b.Top.au(),
		Bottom: b.Bottom.au(),
		Radius: RadiusAu{
			TopLeft:     b.Radius.TopLeft.Au(),
			TopRight:    b.Radius.TopRight.Au(),
			BottomLeft:  b.Radius.BottomLeft.Au(),
			BottomRight: b.Radius.BottomRight.Au(),
		},
		DoAA: b.DoAA,
	}
}

func (s Side) au() SideAu {
	return SideAu{Color: s.Color.ToU(), Style: s.Style}
}

// SideAu is the quantized form of Side.
type SideAu struct {
	Color color.ColorU
	Style Style
}

// RadiusAu is the quantized form of Radius.
type RadiusAu struct {
	TopLeft, TopRight, BottomLeft, BottomRight geom.SizeAu
}

// NormalBorderAu is the quantized, comparable form of NormalBorder used
// inside keys.
type NormalBorderAu struct {
	Left, Right, Top, Bottom SideAu
	Radius                   RadiusAu
	DoAA                     bool
}

// Border expands the quantized border back to float form.
func (b NormalBorderAu) Border() NormalBorder {
	return NormalBorder{
		Left:   Side{Color: b.Left.Color.ToF(), Style: b.Left.Style},
		Right:  Side{Color: b.Right.Color.ToF(), Style: b.Right.Style},
		Top:    Side{Color: b.Top.Color.ToF(), Style: b.Top.Style},
		Bottom: Side{Color: b.Bottom.Color.ToF(), Style: b.Bottom.Style},
		Radius: Radius{
			TopLeft:     b.Radius.TopLeft.Size(),
			TopRight:    b.Radius.TopRight.Size(),
			BottomLeft:  b.Radius.BottomLeft.Size(),
			BottomRight: b.Radius.BottomRight.Size(),
		},
		DoAA: b.DoAA,
	}
}

// WithColor returns a copy with every side's colour replaced by c.
// Styles, radii and anti-aliasing are unchanged.
func (b NormalBorderAu) WithColor(c color.ColorU) NormalBorderAu {
	b.Left.Color = c
	b.Right.Color = c
	b.Top.Color = c
	b.Bottom.Color = c
	return b
}
