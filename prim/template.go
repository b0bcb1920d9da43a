package prim

import (
	"github.com/gogpu/primcache/border"
	"github.com/gogpu/primcache/color"
	"github.com/gogpu/primcache/geom"
	"github.com/gogpu/primcache/gpucache"
	"github.com/gogpu/primcache/resource"
	"github.com/gogpu/primcache/segment"
)

// Opacity classifies whether a primitive covers everything below it.
type Opacity struct {
	IsOpaque bool
}

// Opaque returns an opaque classification.
func Opaque() Opacity { return Opacity{IsOpaque: true} }

// Translucent returns a translucent classification.
func Translucent() Opacity { return Opacity{} }

func (o Opacity) String() string {
	if o.IsOpaque {
		return "opaque"
	}
	return "translucent"
}

// TemplateCommon holds the fields shared by every template variant. Only
// Opacity and GPUHandle change after construction.
type TemplateCommon struct {
	Size            geom.Size
	ClipRect        geom.Rect
	BackfaceVisible bool
	Opacity         Opacity
	GPUHandle       gpucache.Handle
}

// NewTemplateCommon expands the quantized placement of a key.
func NewTemplateCommon(k KeyCommon) TemplateCommon {
	return TemplateCommon{
		Size:            k.Size.Size(),
		ClipRect:        k.ClipRect.Rect(),
		BackfaceVisible: k.BackfaceVisible,
		Opacity:         Translucent(),
	}
}

// Resources resolves image properties during population.
// *resource.Cache implements it.
type Resources interface {
	ImageProperties(key resource.ImageKey) (resource.ImageProperties, bool)
	RequestImage(req resource.ImageRequest, gpu *gpucache.Cache)
}

// FrameState is the per-frame context handed to Update.
type FrameState struct {
	GPUCache *gpucache.Cache
	// Resources may be nil, in which case no image resolves.
	Resources Resources
}

// BorderTemplate is the capability set shared by both template variants.
type BorderTemplate interface {
	CommonData() *TemplateCommon
	Opacity() Opacity
	Segments() []segment.BrushSegment
	// Update populates the GPU cache slot when it is new or was evicted
	// and refreshes the opacity. Calling it again in the same frame does
	// not write the slot again.
	Update(fs *FrameState)
}

var (
	_ BorderTemplate = (*NormalBorderTemplate)(nil)
	_ BorderTemplate = (*ImageBorderTemplate)(nil)
)

// BuildTemplate builds the template of a key.
func BuildTemplate(key BorderKey) BorderTemplate {
	switch k := key.(type) {
	case NormalBorderKey:
		return NewNormalBorderTemplate(k)
	case ImageBorderKey:
		return NewImageBorderTemplate(k)
	default:
		panic("prim: unknown border key type")
	}
}

// writeBlocks writes the fixed header and the segments into a slot.
func writeBlocks(fs *FrameState, common *TemplateCommon, segments []segment.BrushSegment) {
	req := fs.GPUCache.Request(&common.GPUHandle)
	if req == nil {
		return
	}
	// Both border variants run through the image brush shader, which
	// expects two colour blocks and a size block.
	req.PushColor(color.PremultipliedWhite)
	req.PushColor(color.PremultipliedWhite)
	req.PushF(common.Size.Width, common.Size.Height, 0, 0)
	for _, seg := range segments {
		req.WriteSegment(seg.LocalRect, seg.ExtraData)
	}
	req.Finish()
}

// NormalBorderTemplate is the derived form of a NormalBorderKey.
type NormalBorderTemplate struct {
	Common         TemplateCommon
	BrushSegments  []segment.BrushSegment
	BorderSegments []segment.BorderSegmentInfo
	// Border is normalized against Widths.
	Border border.NormalBorder
	Widths geom.SideOffsets
}

// NewNormalBorderTemplate normalizes the border and decomposes it into
// segments.
func NewNormalBorderTemplate(key NormalBorderKey) *NormalBorderTemplate {
	common := NewTemplateCommon(key.Common)
	b := key.Kind.Border.Border()
	widths := key.Kind.Widths.SideOffsets()
	b.Normalize(widths)

	borderSegments, brushSegments := border.CreateBorderSegments(common.Size, b, widths)
	return &NormalBorderTemplate{
		Common:         common,
		BrushSegments:  brushSegments,
		BorderSegments: borderSegments,
		Border:         b,
		Widths:         widths,
	}
}

// CommonData returns the shared template fields.
func (t *NormalBorderTemplate) CommonData() *TemplateCommon { return &t.Common }

// Opacity returns the current opacity classification.
func (t *NormalBorderTemplate) Opacity() Opacity { return t.Common.Opacity }

// Segments returns the brush segments in slot order.
func (t *NormalBorderTemplate) Segments() []segment.BrushSegment { return t.BrushSegments }

// Update populates the slot on demand. Normal borders are always
// classified translucent.
func (t *NormalBorderTemplate) Update(fs *FrameState) {
	writeBlocks(fs, &t.Common, t.BrushSegments)
	t.Common.Opacity = Translucent()
}

// ResetForReuse keeps the GPU slot: its content depends only on the key,
// and Request repopulates it if it was evicted meanwhile.
func (t *NormalBorderTemplate) ResetForReuse() {
	t.Common.Opacity = Translucent()
}

// ImageBorderTemplate is the derived form of an ImageBorderKey.
type ImageBorderTemplate struct {
	Common        TemplateCommon
	Request       resource.ImageRequest
	BrushSegments []segment.BrushSegment
}

// NewImageBorderTemplate slices the nine-patch. Opacity is resolved by
// Update once the image is known.
func NewImageBorderTemplate(key ImageBorderKey) *ImageBorderTemplate {
	common := NewTemplateCommon(key.Common)
	return &ImageBorderTemplate{
		Common:        common,
		Request:       key.Kind.Request,
		BrushSegments: key.Kind.NinePatch.CreateSegments(common.Size),
	}
}

// CommonData returns the shared template fields.
func (t *ImageBorderTemplate) CommonData() *TemplateCommon { return &t.Common }

// Opacity returns the opacity resolved by the last Update.
func (t *ImageBorderTemplate) Opacity() Opacity { return t.Common.Opacity }

// Segments returns the brush segments in slot order.
func (t *ImageBorderTemplate) Segments() []segment.BrushSegment { return t.BrushSegments }

// Update populates the slot on demand, requests the image and takes its
// opacity. An image that does not resolve is treated as an opaque
// placeholder.
func (t *ImageBorderTemplate) Update(fs *FrameState) {
	writeBlocks(fs, &t.Common, t.BrushSegments)

	if fs.Resources == nil {
		t.Common.Opacity = Opaque()
		return
	}
	props, ok := fs.Resources.ImageProperties(t.Request.Key)
	if !ok {
		t.Common.Opacity = Opaque()
		return
	}
	fs.Resources.RequestImage(t.Request, fs.GPUCache)
	t.Common.Opacity = Opacity{IsOpaque: props.Descriptor.IsOpaque}
}

// ResetForReuse drops the resolved opacity and keeps the GPU slot.
func (t *ImageBorderTemplate) ResetForReuse() {
	t.Common.Opacity = Translucent()
}
