// Package segment defines brush segments, the unit consumed by the
// segmented brush shader path, and the per-segment metadata border
// decomposition produces.
package segment

import "github.com/gogpu/primcache/geom"

// EdgeAAMask selects which edges of a segment are anti-aliased.
type EdgeAAMask uint8

// Edge anti-aliasing flags.
const (
	EdgeLeft EdgeAAMask = 1 << iota
	EdgeTop
	EdgeRight
	EdgeBottom

	EdgeNone EdgeAAMask = 0
	EdgeAll             = EdgeLeft | EdgeTop | EdgeRight | EdgeBottom
)

// BrushFlags carries shader options for a segment.
type BrushFlags uint8

// Brush flags.
const (
	// FlagSegmentRelative makes the segment's UVs relative to the segment
	// rectangle instead of the primitive rectangle.
	FlagSegmentRelative BrushFlags = 1 << iota
	FlagRepeatX
	FlagRepeatY
	FlagRepeatXRound
	FlagRepeatYRound
	FlagSegmentNinePatchMiddle
	FlagTexelRect
)

// BrushSegment is a sub-rectangle of a primitive plus the data its shader
// needs. ExtraData is written to the GPU verbatim as one block.
type BrushSegment struct {
	LocalRect       geom.Rect
	MayNeedClipMask bool
	EdgeFlags       EdgeAAMask
	ExtraData       [4]float32
	BrushFlags      BrushFlags
}

// New creates a brush segment.
func New(rect geom.Rect, mayNeedClipMask bool, edgeFlags EdgeAAMask, extraData [4]float32, brushFlags BrushFlags) BrushSegment {
	return BrushSegment{
		LocalRect:       rect,
		MayNeedClipMask: mayNeedClipMask,
		EdgeFlags:       edgeFlags,
		ExtraData:       extraData,
		BrushFlags:      brushFlags,
	}
}

// Kind distinguishes border edges from corners.
type Kind uint8

// Segment kinds.
const (
	KindCorner Kind = iota
	KindEdge
)

func (k Kind) String() string {
	switch k {
	case KindCorner:
		return "corner"
	case KindEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Position identifies which corner or side of the box a border segment
// belongs to. Corners and sides share one enumeration in segment order.
type Position uint8

// Segment positions, in emission order.
const (
	TopLeft Position = iota
	TopRight
	BottomRight
	BottomLeft
	Top
	Right
	Bottom
	Left
)

var positionNames = [...]string{"top-left", "top-right", "bottom-right", "bottom-left", "top", "right", "bottom", "left"}

func (p Position) String() string {
	if int(p) < len(positionNames) {
		return positionNames[p]
	}
	return "unknown"
}

// CacheKey describes a border segment independently of where it is placed,
// so an alternate render path can rasterize it once into a render task and
// share the result. All fields are quantized and comparable.
type CacheKey struct {
	Kind     Kind
	Position Position
	Size     geom.SizeAu
	// Style0/Color0 describe the first (or only) side touching the
	// segment, Style1/Color1 the second side of a corner.
	Style0, Style1 uint8
	Color0, Color1 [4]uint8
	Radius         geom.SizeAu
	Widths         geom.SizeAu
	DoAA           bool
}

// BorderSegmentInfo is a raw border segment retained for render paths that
// draw border pieces into cached render tasks.
type BorderSegmentInfo struct {
	LocalTaskSize geom.Size
	CacheKey      CacheKey
}
