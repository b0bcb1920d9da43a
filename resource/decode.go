package resource

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp" // register BMP
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/gputypes"
)

// Decoding errors.
var (
	// ErrEmptyImage is returned when decoded image data has no pixels.
	ErrEmptyImage = errors.New("resource: empty image")
)

// Decode reads an image in any registered format (PNG, JPEG, GIF, BMP,
// TIFF, WebP) and converts it to premultiplied RGBA8.
func Decode(r io.Reader) (ImageDescriptor, []byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return ImageDescriptor{}, nil, fmt.Errorf("resource: decode: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return ImageDescriptor{}, nil, ErrEmptyImage
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)
	}

	desc := ImageDescriptor{
		Format:   gputypes.TextureFormatRGBA8Unorm,
		Width:    int32(bounds.Dx()),
		Height:   int32(bounds.Dy()),
		Stride:   int32(rgba.Stride),
		IsOpaque: isOpaque(rgba.Pix),
	}
	return desc, rgba.Pix, nil
}

func isOpaque(pix []byte) bool {
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0xFF {
			return false
		}
	}
	return true
}
