package border

import (
	"fmt"

	"github.com/gogpu/primcache/geom"
	"github.com/gogpu/primcache/segment"
)

// RepeatMode controls how the edge and centre slices of a nine-patch fill
// their destination.
type RepeatMode uint8

// Repeat modes.
const (
	RepeatStretch RepeatMode = iota
	RepeatRepeat
	RepeatRound
	RepeatSpace
)

var repeatNames = [...]string{"stretch", "repeat", "round", "space"}

func (m RepeatMode) String() string {
	if int(m) < len(repeatNames) {
		return repeatNames[m]
	}
	return fmt.Sprintf("RepeatMode(%d)", uint8(m))
}

// ParseRepeatMode returns the repeat mode with the given CSS name.
func ParseRepeatMode(name string) (RepeatMode, error) {
	for i, n := range repeatNames {
		if n == name {
			return RepeatMode(i), nil
		}
	}
	return RepeatStretch, fmt.Errorf("border: unknown repeat mode %q", name)
}

func (m RepeatMode) horizontalFlags() segment.BrushFlags {
	switch m {
	case RepeatRepeat, RepeatSpace:
		return segment.FlagRepeatX
	case RepeatRound:
		return segment.FlagRepeatX | segment.FlagRepeatXRound
	default:
		return 0
	}
}

func (m RepeatMode) verticalFlags() segment.BrushFlags {
	switch m {
	case RepeatRepeat, RepeatSpace:
		return segment.FlagRepeatY
	case RepeatRound:
		return segment.FlagRepeatY | segment.FlagRepeatYRound
	default:
		return 0
	}
}

// NinePatchDescriptor describes how an image of Width x Height texels is
// sliced into a 3x3 grid and mapped onto a border box.
//
// Slice insets are in texels. Widths and Outset are quantized layout
// values: Outset grows the destination outward from the primitive rect,
// Widths are the destination thicknesses of the outer slices.
type NinePatchDescriptor struct {
	Width, Height    int32
	Slice            geom.SideOffsetsI
	Fill             bool
	RepeatHorizontal RepeatMode
	RepeatVertical   RepeatMode
	Outset           geom.SideOffsetsAu
	Widths           geom.SideOffsetsAu
}

// CreateSegments slices a primitive of the given size into up to nine
// brush segments: the corners (top-left, top-right, bottom-right,
// bottom-left), the centre when Fill is set, then the top, bottom, left and
// right edges. Each segment's ExtraData holds its source texel rectangle as
// [u0, v0, u1, v1]. Empty segments are skipped.
func (d NinePatchDescriptor) CreateSegments(size geom.Size) []segment.BrushSegment {
	slice := d.Slice.Float()
	outset := d.Outset.SideOffsets()
	widths := d.Widths.SideOffsets()

	// Texel coordinates of the slice lines.
	px0, px1, px2, px3 := float32(0), slice.Left, float32(d.Width)-slice.Right, float32(d.Width)
	py0, py1, py2, py3 := float32(0), slice.Top, float32(d.Height)-slice.Bottom, float32(d.Height)

	tlOuter := geom.Point{X: -outset.Left, Y: -outset.Top}
	tlInner := geom.Point{X: tlOuter.X + widths.Left, Y: tlOuter.Y + widths.Top}
	brOuter := geom.Point{X: size.Width + outset.Right, Y: size.Height + outset.Bottom}
	brInner := geom.Point{X: brOuter.X - widths.Right, Y: brOuter.Y - widths.Bottom}

	segments := make([]segment.BrushSegment, 0, 9)
	add := func(x0, y0, x1, y1, u0, v0, u1, v1 float32, flags segment.BrushFlags, edges segment.EdgeAAMask) {
		if x1 <= x0 || y1 <= y0 {
			return
		}
		segments = append(segments, segment.New(
			geom.NewRect(x0, y0, x1-x0, y1-y0),
			true,
			edges,
			[4]float32{u0, v0, u1, v1},
			segment.FlagSegmentRelative|flags,
		))
	}

	hFlags := d.RepeatHorizontal.horizontalFlags()
	vFlags := d.RepeatVertical.verticalFlags()

	// Corners.
	add(tlOuter.X, tlOuter.Y, tlInner.X, tlInner.Y, px0, py0, px1, py1, 0, segment.EdgeTop|segment.EdgeLeft)
	add(brInner.X, tlOuter.Y, brOuter.X, tlInner.Y, px2, py0, px3, py1, 0, segment.EdgeTop|segment.EdgeRight)
	add(brInner.X, brInner.Y, brOuter.X, brOuter.Y, px2, py2, px3, py3, 0, segment.EdgeBottom|segment.EdgeRight)
	add(tlOuter.X, brInner.Y, tlInner.X, brOuter.Y, px0, py2, px1, py3, 0, segment.EdgeBottom|segment.EdgeLeft)

	if d.Fill {
		add(tlInner.X, tlInner.Y, brInner.X, brInner.Y, px1, py1, px2, py2,
			hFlags|vFlags|segment.FlagSegmentNinePatchMiddle, segment.EdgeNone)
	}

	// Edges.
	add(tlInner.X, tlOuter.Y, brInner.X, tlInner.Y, px1, py0, px2, py1, hFlags, segment.EdgeTop)
	add(tlInner.X, brInner.Y, brInner.X, brOuter.Y, px1, py2, px2, py3, hFlags, segment.EdgeBottom)
	add(tlOuter.X, tlInner.Y, tlInner.X, brInner.Y, px0, py1, px1, py2, vFlags, segment.EdgeLeft)
	add(brInner.X, tlInner.Y, brOuter.X, brInner.Y, px2, py1, px3, py2, vFlags, segment.EdgeRight)

	return segments
}
