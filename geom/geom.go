package geom

// Point is a position in layout space.
type Point struct {
	X, Y float32
}

// Add returns p translated by v.
func (p Point) Add(v Point) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Size is a width/height pair in layout pixels.
type Size struct {
	Width, Height float32
}

// IsEmpty reports whether the size has no area.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle with an origin and a size.
type Rect struct {
	Origin Point
	Size   Size
}

// NewRect creates a rectangle from origin and size components.
func NewRect(x, y, w, h float32) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// RectFromSize returns a rectangle of the given size at the origin.
func RectFromSize(s Size) Rect {
	return Rect{Size: s}
}

// MinX returns the left edge.
func (r Rect) MinX() float32 { return r.Origin.X }

// MinY returns the top edge.
func (r Rect) MinY() float32 { return r.Origin.Y }

// MaxX returns the right edge.
func (r Rect) MaxX() float32 { return r.Origin.X + r.Size.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float32 { return r.Origin.Y + r.Size.Height }

// Width returns the rectangle width.
func (r Rect) Width() float32 { return r.Size.Width }

// Height returns the rectangle height.
func (r Rect) Height() float32 { return r.Size.Height }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Size.IsEmpty() }

// Translate returns r moved by v.
func (r Rect) Translate(v Point) Rect {
	return Rect{Origin: r.Origin.Add(v), Size: r.Size}
}

// Area returns width times height, or zero for empty rectangles.
func (r Rect) Area() float32 {
	if r.IsEmpty() {
		return 0
	}
	return r.Size.Width * r.Size.Height
}

// Intersects reports whether r and o overlap with non-zero area.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX() < o.MaxX() && o.MinX() < r.MaxX() &&
		r.MinY() < o.MaxY() && o.MinY() < r.MaxY()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.MinX() >= r.MinX() && o.MaxX() <= r.MaxX() &&
		o.MinY() >= r.MinY() && o.MaxY() <= r.MaxY()
}

// SideOffsets holds one value per box side, in CSS order.
type SideOffsets struct {
	Top, Right, Bottom, Left float32
}

// UniformSideOffsets returns offsets with the same value on every side.
func UniformSideOffsets(v float32) SideOffsets {
	return SideOffsets{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns Left + Right.
func (s SideOffsets) Horizontal() float32 { return s.Left + s.Right }

// Vertical returns Top + Bottom.
func (s SideOffsets) Vertical() float32 { return s.Top + s.Bottom }

// IsZero reports whether all four sides are zero.
func (s SideOffsets) IsZero() bool {
	return s.Top == 0 && s.Right == 0 && s.Bottom == 0 && s.Left == 0
}

// SideOffsetsI is the integer form used for image slice insets.
type SideOffsetsI struct {
	Top, Right, Bottom, Left int32
}

// Float converts the insets to float offsets.
func (s SideOffsetsI) Float() SideOffsets {
	return SideOffsets{
		Top:    float32(s.Top),
		Right:  float32(s.Right),
		Bottom: float32(s.Bottom),
		Left:   float32(s.Left),
	}
}

// PrimitiveInfo is the placement information a display item supplies for a
// primitive. ClipRect is in the same coordinate space as Rect.
type PrimitiveInfo struct {
	Rect            Rect
	ClipRect        Rect
	BackfaceVisible bool
}
