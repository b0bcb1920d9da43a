package resource

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/primcache/gpucache"
)

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func filled(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestAddImageDataOpacity(t *testing.T) {
	tests := []struct {
		name   string
		alpha  uint8
		opaque bool
	}{
		{"opaque", 255, true},
		{"translucent", 128, false},
		{"transparent", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache()
			key := ImageKey{ID: 1}
			desc, err := c.AddImageData(key, encodePNG(t, filled(4, 2, color.NRGBA{R: 200, A: tt.alpha})))
			if err != nil {
				t.Fatalf("AddImageData: %v", err)
			}
			if desc.IsOpaque != tt.opaque {
				t.Errorf("expected opaque=%v, got %v", tt.opaque, desc.IsOpaque)
			}
			if desc.Width != 4 || desc.Height != 2 {
				t.Errorf("expected 4x2, got %dx%d", desc.Width, desc.Height)
			}
			if desc.Format != gputypes.TextureFormatRGBA8Unorm {
				t.Errorf("expected RGBA8Unorm, got %v", desc.Format)
			}
			props, ok := c.ImageProperties(key)
			if !ok || props.Descriptor != desc {
				t.Errorf("expected stored descriptor %+v, got %+v", desc, props.Descriptor)
			}
			pix, ok := c.Pixels(key)
			if !ok || len(pix) != 4*2*4 {
				t.Errorf("expected 32 pixel bytes, got %d", len(pix))
			}
		})
	}
}

func TestAddImageDataBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, filled(3, 3, color.NRGBA{G: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	c := NewCache()
	desc, err := c.AddImageData(ImageKey{ID: 7}, &buf)
	if err != nil {
		t.Fatalf("AddImageData: %v", err)
	}
	if !desc.IsOpaque || desc.Width != 3 {
		t.Errorf("unexpected descriptor %+v", desc)
	}
}

func TestAddImageDataInvalid(t *testing.T) {
	c := NewCache()
	_, err := c.AddImageData(ImageKey{ID: 1}, strings.NewReader("not an image"))
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !errors.Is(err, image.ErrFormat) {
		t.Errorf("expected image.ErrFormat in chain, got %v", err)
	}
	if _, ok := c.ImageProperties(ImageKey{ID: 1}); ok {
		t.Error("failed decode must not register the image")
	}
}

func TestAddImageBumpsEpoch(t *testing.T) {
	c := NewCache()
	key := ImageKey{Namespace: 1, ID: 2}
	c.AddImage(key, ImageDescriptor{Width: 8, Height: 8})
	c.AddImage(key, ImageDescriptor{Width: 16, Height: 8, IsOpaque: true})

	props, ok := c.ImageProperties(key)
	if !ok {
		t.Fatal("expected image")
	}
	if props.Epoch != 2 {
		t.Errorf("expected epoch 2, got %d", props.Epoch)
	}
	if props.Descriptor.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("expected default format, got %v", props.Descriptor.Format)
	}
	if !c.RemoveImage(key) {
		t.Error("expected RemoveImage to report true")
	}
	if c.RemoveImage(key) {
		t.Error("expected second RemoveImage to report false")
	}
}

func TestRequestImage(t *testing.T) {
	c := NewCache()
	gpu := gpucache.New(gpucache.DefaultConfig())
	key := ImageKey{ID: 3}
	c.AddImage(key, ImageDescriptor{Width: 32, Height: 16})

	req := ImageRequest{Key: key, Rendering: RenderingPixelated}

	gpu.BeginFrame()
	c.BeginFrame(gpu)
	c.RequestImage(req, gpu)
	c.RequestImage(req, gpu)
	c.RequestImage(ImageRequest{Key: ImageKey{ID: 99}}, gpu)

	pending := c.PendingRequests()
	if len(pending) != 1 || pending[0] != req {
		t.Errorf("expected one pending request, got %v", pending)
	}
	st := c.Stats()
	if st.Requests != 3 || st.Misses != 1 {
		t.Errorf("expected 3 requests and 1 miss, got %+v", st)
	}

	h, ok := c.UVHandle(req)
	if !ok || !gpu.IsValid(h) {
		t.Fatal("expected a live UV handle")
	}
	blocks, _ := gpu.Blocks(h)
	if len(blocks) != 2 || blocks[0] != (gpucache.Block{0, 0, 32, 16}) {
		t.Errorf("unexpected UV blocks %v", blocks)
	}
	if gpu.Stats().Writes != 1 {
		t.Errorf("expected 1 GPU cache write, got %d", gpu.Stats().Writes)
	}

	c.BeginFrame(gpu)
	if len(c.PendingRequests()) != 0 {
		t.Error("expected BeginFrame to clear pending requests")
	}
}

func TestReplacedImageSlotsEvictedNextFrame(t *testing.T) {
	c := NewCache()
	gpu := gpucache.New(gpucache.DefaultConfig())
	key := ImageKey{ID: 4}
	c.AddImage(key, ImageDescriptor{Width: 8, Height: 8})
	req := ImageRequest{Key: key}

	gpu.BeginFrame()
	c.BeginFrame(gpu)
	c.RequestImage(req, gpu)
	old, _ := c.UVHandle(req)
	gpu.EndFrame()

	c.AddImage(key, ImageDescriptor{Width: 16, Height: 8})
	if _, ok := c.UVHandle(req); ok {
		t.Error("expected the UV handle to be dropped on replace")
	}
	if !gpu.IsValid(old) {
		t.Fatal("expected the old slot to stay live until the next frame")
	}

	gpu.BeginFrame()
	c.BeginFrame(gpu)
	if gpu.IsValid(old) {
		t.Error("expected the replaced image's slot to be evicted")
	}
	c.RequestImage(req, gpu)
	h, _ := c.UVHandle(req)
	blocks, _ := gpu.Blocks(h)
	if len(blocks) != 2 || blocks[0] != (gpucache.Block{0, 0, 16, 8}) {
		t.Errorf("expected UV blocks for the new size, got %v", blocks)
	}
	if slots := gpu.Stats().Slots; slots != 1 {
		t.Errorf("expected 1 live slot, got %d", slots)
	}

	c.RemoveImage(key)
	gpu.EndFrame()
	gpu.BeginFrame()
	c.BeginFrame(gpu)
	if gpu.IsValid(h) {
		t.Error("expected the removed image's slot to be evicted")
	}
}

func TestParseImageRendering(t *testing.T) {
	r, err := ParseImageRendering("crisp-edges")
	if err != nil || r != RenderingCrispEdges {
		t.Errorf("expected crisp-edges, got %v (%v)", r, err)
	}
	if _, err := ParseImageRendering("blurry"); err == nil {
		t.Error("expected error for unknown rendering")
	}
}
