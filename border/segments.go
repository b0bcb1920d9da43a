package border

import (
	"github.com/gogpu/primcache/geom"
	"github.com/gogpu/primcache/segment"
)

// CreateBorderSegments decomposes a normalized border drawn on a box of
// the given size into corner and edge segments.
//
// Segments are emitted in a fixed order: the four corners clockwise from
// the top-left, then the top, right, bottom and left edges. Corners take
// the larger of the adjacent width and the corner radius on each axis, up
// to half the box.
// Empty pieces and edges of invisible sides are skipped, as are corners
// with no visible adjacent side.
//
// The returned slices are parallel: brushSegments[i] renders the piece
// described by borderSegments[i].
func CreateBorderSegments(
	size geom.Size,
	b NormalBorder,
	widths geom.SideOffsets,
) (borderSegments []segment.BorderSegmentInfo, brushSegments []segment.BrushSegment) {
	w, h := size.Width, size.Height

	tl := cornerSize(widths.Left, widths.Top, b.Radius.TopLeft, size)
	tr := cornerSize(widths.Right, widths.Top, b.Radius.TopRight, size)
	br := cornerSize(widths.Right, widths.Bottom, b.Radius.BottomRight, size)
	bl := cornerSize(widths.Left, widths.Bottom, b.Radius.BottomLeft, size)

	sb := segmentBuilder{border: b, widths: widths}

	sb.corner(segment.TopLeft, geom.NewRect(0, 0, tl.Width, tl.Height),
		b.Left, b.Top, b.Radius.TopLeft, segment.EdgeLeft|segment.EdgeTop)
	sb.corner(segment.TopRight, geom.NewRect(w-tr.Width, 0, tr.Width, tr.Height),
		b.Top, b.Right, b.Radius.TopRight, segment.EdgeTop|segment.EdgeRight)
	sb.corner(segment.BottomRight, geom.NewRect(w-br.Width, h-br.Height, br.Width, br.Height),
		b.Right, b.Bottom, b.Radius.BottomRight, segment.EdgeRight|segment.EdgeBottom)
	sb.corner(segment.BottomLeft, geom.NewRect(0, h-bl.Height, bl.Width, bl.Height),
		b.Bottom, b.Left, b.Radius.BottomLeft, segment.EdgeBottom|segment.EdgeLeft)

	sb.edge(segment.Top, geom.NewRect(tl.Width, 0, w-tl.Width-tr.Width, widths.Top),
		b.Top, widths.Top, true, segment.EdgeTop)
	sb.edge(segment.Right, geom.NewRect(w-widths.Right, tr.Height, widths.Right, h-tr.Height-br.Height),
		b.Right, widths.Right, false, segment.EdgeRight)
	sb.edge(segment.Bottom, geom.NewRect(bl.Width, h-widths.Bottom, w-bl.Width-br.Width, widths.Bottom),
		b.Bottom, widths.Bottom, true, segment.EdgeBottom)
	sb.edge(segment.Left, geom.NewRect(0, tl.Height, widths.Left, h-tl.Height-bl.Height),
		b.Left, widths.Left, false, segment.EdgeLeft)

	return sb.borderSegments, sb.brushSegments
}

// cornerSize returns the size of a corner piece, clamped to half the box
// on each axis so opposite corners never overlap.
func cornerSize(sideWidth, sideHeight float32, radius, box geom.Size) geom.Size {
	return geom.Size{
		Width:  min(max(sideWidth, radius.Width), box.Width/2),
		Height: min(max(sideHeight, radius.Height), box.Height/2),
	}
}

type segmentBuilder struct {
	border         NormalBorder
	widths         geom.SideOffsets
	borderSegments []segment.BorderSegmentInfo
	brushSegments  []segment.BrushSegment
}

func (sb *segmentBuilder) edgeFlags(flags segment.EdgeAAMask) segment.EdgeAAMask {
	if !sb.border.DoAA {
		return segment.EdgeNone
	}
	return flags
}

func (sb *segmentBuilder) corner(
	pos segment.Position,
	rect geom.Rect,
	side0, side1 Side,
	radius geom.Size,
	flags segment.EdgeAAMask,
) {
	if rect.IsEmpty() || (!side0.Style.IsVisible() && !side1.Style.IsVisible()) {
		return
	}

	sb.push(rect, flags, segment.BorderSegmentInfo{
		LocalTaskSize: rect.Size,
		CacheKey: segment.CacheKey{
			Kind:     segment.KindCorner,
			Position: pos,
			Size:     rect.Size.Au(),
			Style0:   uint8(side0.Style),
			Style1:   uint8(side1.Style),
			Color0:   colorKey(side0),
			Color1:   colorKey(side1),
			Radius:   radius.Au(),
			Widths:   cornerWidths(pos, sb.widths).Au(),
			DoAA:     sb.border.DoAA,
		},
	})
}

func (sb *segmentBuilder) edge(
	pos segment.Position,
	rect geom.Rect,
	side Side,
	width float32,
	horizontal bool,
	flags segment.EdgeAAMask,
) {
	if rect.IsEmpty() || !side.Style.IsVisible() {
		return
	}

	taskSize := rect.Size
	if side.Style.isRepeatable() {
		// The shader stretches a one pixel long slice along the edge.
		if horizontal {
			taskSize.Width = 1
		} else {
			taskSize.Height = 1
		}
	}

	sb.push(rect, flags, segment.BorderSegmentInfo{
		LocalTaskSize: taskSize,
		CacheKey: segment.CacheKey{
			Kind:     segment.KindEdge,
			Position: pos,
			Size:     taskSize.Au(),
			Style0:   uint8(side.Style),
			Color0:   colorKey(side),
			Widths:   geom.Size{Width: width, Height: width}.Au(),
			DoAA:     sb.border.DoAA,
		},
	})
}

func (sb *segmentBuilder) push(rect geom.Rect, flags segment.EdgeAAMask, info segment.BorderSegmentInfo) {
	sb.borderSegments = append(sb.borderSegments, info)
	sb.brushSegments = append(sb.brushSegments, segment.New(
		rect,
		true,
		sb.edgeFlags(flags),
		[4]float32{},
		segment.FlagSegmentRelative,
	))
}

func colorKey(s Side) [4]uint8 {
	c := s.Color.ToU()
	return [4]uint8{c.R, c.G, c.B, c.A}
}

func cornerWidths(pos segment.Position, w geom.SideOffsets) geom.Size {
	switch pos {
	case segment.TopLeft:
		return geom.Size{Width: w.Left, Height: w.Top}
	case segment.TopRight:
		return geom.Size{Width: w.Right, Height: w.Top}
	case segment.BottomRight:
		return geom.Size{Width: w.Right, Height: w.Bottom}
	default:
		return geom.Size{Width: w.Left, Height: w.Bottom}
	}
}
