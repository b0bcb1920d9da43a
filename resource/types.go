// Package resource tracks image resources referenced by primitives: their
// descriptors, decoded pixels, and the per-frame requests that make an
// image resident.
package resource

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ImageKey identifies an image registered with a Cache.
type ImageKey struct {
	Namespace uint32
	ID        uint32
}

func (k ImageKey) String() string {
	return fmt.Sprintf("%d:%d", k.Namespace, k.ID)
}

// ImageRendering selects the sampling filter.
type ImageRendering uint8

// Image rendering modes.
const (
	RenderingAuto ImageRendering = iota
	RenderingCrispEdges
	RenderingPixelated
)

var renderingNames = [...]string{"auto", "crisp-edges", "pixelated"}

func (r ImageRendering) String() string {
	if int(r) < len(renderingNames) {
		return renderingNames[r]
	}
	return fmt.Sprintf("ImageRendering(%d)", uint8(r))
}

// ParseImageRendering returns the rendering mode with the given CSS name.
func ParseImageRendering(name string) (ImageRendering, error) {
	for i, n := range renderingNames {
		if n == name {
			return ImageRendering(i), nil
		}
	}
	return RenderingAuto, fmt.Errorf("resource: unknown image rendering %q", name)
}

// TileOffset addresses one tile of a tiled image.
type TileOffset struct {
	X, Y int32
}

// ImageRequest names the image data a primitive needs. It is comparable
// and usable inside map keys.
type ImageRequest struct {
	Key       ImageKey
	Rendering ImageRendering
	Tile      TileOffset
	HasTile   bool
}

// ImageDescriptor describes the layout of image data.
type ImageDescriptor struct {
	Format gputypes.TextureFormat
	Width  int32
	Height int32
	// Stride is the row pitch in bytes; zero means tightly packed.
	Stride int32
	Offset int32
	// IsOpaque is set when every pixel has full alpha.
	IsOpaque bool
}

// Size returns the image size in texels.
func (d ImageDescriptor) Size() (width, height int32) {
	return d.Width, d.Height
}

// ImageProperties are the resolved properties of a registered image.
type ImageProperties struct {
	Descriptor ImageDescriptor
	// Epoch increases each time the image data is replaced.
	Epoch uint32
	// TileSize is non-zero for tiled images.
	TileSize uint16
}
