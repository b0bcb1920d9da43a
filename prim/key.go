package prim

import (
	"github.com/gogpu/primcache/border"
	"github.com/gogpu/primcache/color"
	"github.com/gogpu/primcache/geom"
	"github.com/gogpu/primcache/resource"
)

// KeyCommon holds the placement fields shared by every key variant.
type KeyCommon struct {
	Size            geom.SizeAu
	ClipRect        geom.RectAu
	BackfaceVisible bool
}

// NewKeyCommon quantizes the placement of a primitive. clip is the clip
// rect relative to the primitive origin.
func NewKeyCommon(info geom.PrimitiveInfo, clip geom.Rect) KeyCommon {
	return KeyCommon{
		Size:            info.Rect.Size.Au(),
		ClipRect:        clip.Au(),
		BackfaceVisible: info.BackfaceVisible,
	}
}

// Shadow is a drop shadow applied to a primitive.
type Shadow struct {
	Offset     geom.Point
	Color      color.ColorF
	BlurRadius float32
}

// BorderContent is the content of a border primitive before placement:
// NormalBorderPrim or ImageBorder.
type BorderContent interface {
	// IsVisible reports whether the content can produce output. Culling
	// happens upstream, so borders are always visible.
	IsVisible() bool
	buildKey(info geom.PrimitiveInfo, clip geom.Rect) BorderKey
}

// BorderKey is a placed border key: NormalBorderKey or ImageBorderKey.
type BorderKey interface {
	CommonData() KeyCommon
	Hash() uint64
	isBorderKey()
}

// BuildKey combines content with its placement. It is pure: equal inputs
// give equal keys.
func BuildKey(content BorderContent, info geom.PrimitiveInfo, clip geom.Rect) BorderKey {
	return content.buildKey(info, clip)
}

// NormalBorderPrim is the content of a border drawn from styled sides.
type NormalBorderPrim struct {
	Border border.NormalBorderAu
	Widths geom.SideOffsetsAu
}

// NewNormalBorderPrim quantizes a border and its widths.
func NewNormalBorderPrim(b border.NormalBorder, widths geom.SideOffsets) NormalBorderPrim {
	return NormalBorderPrim{Border: b.Au(), Widths: widths.Au()}
}

// IsVisible always reports true.
func (p NormalBorderPrim) IsVisible() bool { return true }

// CreateShadow returns the content drawn for a shadow of p: every side's
// colour becomes the shadow colour. Widths, styles and radii are kept.
func (p NormalBorderPrim) CreateShadow(s Shadow) NormalBorderPrim {
	return NormalBorderPrim{
		Border: p.Border.WithColor(s.Color.ToU()),
		Widths: p.Widths,
	}
}

func (p NormalBorderPrim) buildKey(info geom.PrimitiveInfo, clip geom.Rect) BorderKey {
	return NewNormalBorderKey(info, clip, p)
}

// NormalBorderKey identifies a placed normal border.
type NormalBorderKey struct {
	Common KeyCommon
	Kind   NormalBorderPrim
}

// NewNormalBorderKey builds the key of a placed normal border.
func NewNormalBorderKey(info geom.PrimitiveInfo, clip geom.Rect, p NormalBorderPrim) NormalBorderKey {
	return NormalBorderKey{Common: NewKeyCommon(info, clip), Kind: p}
}

// CommonData returns the placement fields.
func (k NormalBorderKey) CommonData() KeyCommon { return k.Common }

func (NormalBorderKey) isBorderKey() {}

// ImageBorder is the content of a border drawn from a nine-patch image.
type ImageBorder struct {
	Request   resource.ImageRequest
	NinePatch border.NinePatchDescriptor
}

// IsVisible always reports true.
func (b ImageBorder) IsVisible() bool { return true }

func (b ImageBorder) buildKey(info geom.PrimitiveInfo, clip geom.Rect) BorderKey {
	return NewImageBorderKey(info, clip, b)
}

// ImageBorderKey identifies a placed image border.
type ImageBorderKey struct {
	Common KeyCommon
	Kind   ImageBorder
}

// NewImageBorderKey builds the key of a placed image border.
func NewImageBorderKey(info geom.PrimitiveInfo, clip geom.Rect, b ImageBorder) ImageBorderKey {
	return ImageBorderKey{Common: NewKeyCommon(info, clip), Kind: b}
}

// CommonData returns the placement fields.
func (k ImageBorderKey) CommonData() KeyCommon { return k.Common }

func (ImageBorderKey) isBorderKey() {}
