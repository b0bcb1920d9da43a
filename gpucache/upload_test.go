package gpucache

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
)

type mockTexture struct {
	width, height int
	data          []byte
	updated       int
	destroyed     bool
	failUpdate    bool
}

func (m *mockTexture) UpdateData(data []byte) error {
	if m.failUpdate {
		return errors.New("device lost")
	}
	m.data = append(m.data[:0], data...)
	m.updated++
	return nil
}

func (m *mockTexture) Destroy() { m.destroyed = true }

type mockCreator struct {
	textures []*mockTexture
}

func (m *mockCreator) NewTextureFromRGBA(width, height int, data []byte) (any, error) {
	tex := &mockTexture{width: width, height: height, data: append([]byte(nil), data...)}
	m.textures = append(m.textures, tex)
	return tex, nil
}

func TestNewUploaderNilCreator(t *testing.T) {
	if _, err := NewUploader(nil); !errors.Is(err, ErrNilCreator) {
		t.Errorf("expected ErrNilCreator, got %v", err)
	}
}

func TestDescriptor(t *testing.T) {
	format, extent, usage := Descriptor(3)
	if format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("expected RGBA8Unorm, got %v", format)
	}
	if extent.Width != RowWidth*4 || extent.Height != 3 || extent.DepthOrArrayLayers != 1 {
		t.Errorf("unexpected extent %+v", extent)
	}
	if usage&gputypes.TextureUsageCopyDst == 0 {
		t.Error("expected CopyDst usage")
	}
}

func TestUploaderLifecycle(t *testing.T) {
	c := New(DefaultConfig())
	creator := &mockCreator{}
	up, err := NewUploader(creator)
	if err != nil {
		t.Fatal(err)
	}

	c.BeginFrame()
	var a Handle
	req := c.Request(&a)
	req.PushF(1.5, 2, 3, 4)
	req.Finish()
	if _, err := up.Upload(c, c.EndFrame()); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(creator.textures) != 1 {
		t.Fatalf("expected 1 texture, got %d", len(creator.textures))
	}
	tex := creator.textures[0]
	if tex.width != RowWidth*4 || tex.height != 1 {
		t.Errorf("expected %dx1 texture, got %dx%d", RowWidth*4, tex.width, tex.height)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(tex.data)); got != 1.5 {
		t.Errorf("expected first texel to hold 1.5, got %v", got)
	}

	// Nothing written: no update.
	c.BeginFrame()
	c.Request(&a)
	if _, err := up.Upload(c, c.EndFrame()); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if tex.updated != 0 {
		t.Errorf("expected no in-place update, got %d", tex.updated)
	}

	// New slot in the existing row: in-place update.
	c.BeginFrame()
	var b Handle
	req = c.Request(&b)
	req.PushF(7, 0, 0, 0)
	req.Finish()
	if _, err := up.Upload(c, c.EndFrame()); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if tex.updated != 1 {
		t.Errorf("expected 1 in-place update, got %d", tex.updated)
	}

	// New size class grows the arena: texture recreated.
	c.BeginFrame()
	var d Handle
	req = c.Request(&d)
	for i := 0; i < 3; i++ {
		req.PushF(0, 0, 0, 0)
	}
	req.Finish()
	if _, err := up.Upload(c, c.EndFrame()); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(creator.textures) != 2 {
		t.Fatalf("expected texture recreation, got %d textures", len(creator.textures))
	}
	if !tex.destroyed {
		t.Error("expected old texture to be destroyed")
	}
	full, partial := up.Uploads()
	if full != 2 || partial != 1 {
		t.Errorf("expected 2 full and 1 partial uploads, got %d and %d", full, partial)
	}

	up.Close()
	if !creator.textures[1].destroyed {
		t.Error("expected Close to destroy the texture")
	}
}

func TestUploaderUpdateFailure(t *testing.T) {
	c := New(DefaultConfig())
	creator := &mockCreator{}
	up, _ := NewUploader(creator)

	c.BeginFrame()
	var a Handle
	writeBlocks(t, c, &a, 1)
	if _, err := up.Upload(c, c.EndFrame()); err != nil {
		t.Fatal(err)
	}
	creator.textures[0].failUpdate = true

	c.BeginFrame()
	var b Handle
	writeBlocks(t, c, &b, 1)
	if _, err := up.Upload(c, c.EndFrame()); err == nil {
		t.Error("expected update error")
	}
}
