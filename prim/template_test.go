package prim

import (
	"testing"

	"github.com/gogpu/primcache/border"
	"github.com/gogpu/primcache/color"
	"github.com/gogpu/primcache/geom"
	"github.com/gogpu/primcache/gpucache"
	"github.com/gogpu/primcache/intern"
	"github.com/gogpu/primcache/resource"
	"github.com/gogpu/primcache/storage"
)

func normalKey(width float32) NormalBorderKey {
	return NewNormalBorderKey(placement(10, 10), geom.NewRect(0, 0, 10, 10), solidContent(width))
}

func imageKey() ImageBorderKey {
	return NewImageBorderKey(placement(100, 50), geom.NewRect(0, 0, 100, 50), imageContent())
}

func newFrameState() *FrameState {
	gpu := gpucache.New(gpucache.DefaultConfig())
	gpu.BeginFrame()
	return &FrameState{GPUCache: gpu, Resources: resource.NewCache()}
}

func TestNormalBorderTemplateSegments(t *testing.T) {
	tmpl := NewNormalBorderTemplate(normalKey(2))

	if len(tmpl.BrushSegments) != 8 {
		t.Fatalf("expected 8 brush segments, got %d", len(tmpl.BrushSegments))
	}
	if len(tmpl.BorderSegments) != 8 {
		t.Errorf("expected 8 border segments, got %d", len(tmpl.BorderSegments))
	}
	if tmpl.Opacity().IsOpaque {
		t.Error("expected translucent normal border")
	}
	if tmpl.Common.Size != (geom.Size{Width: 10, Height: 10}) {
		t.Errorf("expected size 10x10, got %+v", tmpl.Common.Size)
	}
	if tmpl.Widths != geom.UniformSideOffsets(2) {
		t.Errorf("expected widths 2, got %+v", tmpl.Widths)
	}
}

func TestNormalBorderTemplateNormalizesBeforeSegmenting(t *testing.T) {
	b := border.Uniform(border.Side{Color: color.RGBA(1, 1, 1, 1), Style: border.StyleDouble})
	widths := geom.SideOffsets{Top: 2, Right: 0, Bottom: 2, Left: 2}
	key := NewNormalBorderKey(placement(10, 10), geom.NewRect(0, 0, 10, 10), NewNormalBorderPrim(b, widths))

	tmpl := NewNormalBorderTemplate(key)
	if tmpl.Border.Right.Style != border.StyleNone {
		t.Errorf("expected zero-width side to become none, got %v", tmpl.Border.Right.Style)
	}
	if tmpl.Border.Top.Style != border.StyleSolid {
		t.Errorf("expected thin double side to become solid, got %v", tmpl.Border.Top.Style)
	}
	for i, seg := range tmpl.BrushSegments {
		if seg.LocalRect.MaxX() > 10 || seg.LocalRect.MinX() < 0 {
			t.Errorf("segment %d outside the box: %+v", i, seg.LocalRect)
		}
	}
	// The right edge and both right corners have zero width.
	if len(tmpl.BrushSegments) != 5 {
		t.Errorf("expected 5 segments, got %d", len(tmpl.BrushSegments))
	}
}

func TestUpdateWritesOncePerFrame(t *testing.T) {
	fs := newFrameState()
	tmpl := NewNormalBorderTemplate(normalKey(2))

	tmpl.Update(fs)
	tmpl.Update(fs)

	st := fs.GPUCache.Stats()
	if st.Writes != 1 {
		t.Errorf("expected 1 write, got %d", st.Writes)
	}
	if st.Hits != 1 {
		t.Errorf("expected 1 hit, got %d", st.Hits)
	}
}

func TestUpdateBlockLayout(t *testing.T) {
	fs := newFrameState()
	tmpl := NewNormalBorderTemplate(normalKey(2))
	tmpl.Update(fs)

	blocks, ok := fs.GPUCache.Blocks(tmpl.Common.GPUHandle)
	if !ok {
		t.Fatal("expected populated slot")
	}
	if want := 3 + 2*len(tmpl.BrushSegments); len(blocks) != want {
		t.Fatalf("expected %d blocks, got %d", want, len(blocks))
	}

	white := gpucache.Block(color.PremultipliedWhite.Array())
	if blocks[0] != white || blocks[1] != white {
		t.Errorf("expected two white blocks, got %v %v", blocks[0], blocks[1])
	}
	if blocks[2] != (gpucache.Block{10, 10, 0, 0}) {
		t.Errorf("expected size block, got %v", blocks[2])
	}
	for i, seg := range tmpl.BrushSegments {
		r := seg.LocalRect
		rect := gpucache.Block{r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height}
		if got := blocks[3+2*i]; got != rect {
			t.Errorf("segment %d: expected rect block %v, got %v", i, rect, got)
		}
		if got := blocks[4+2*i]; got != gpucache.Block(seg.ExtraData) {
			t.Errorf("segment %d: expected extra block %v, got %v", i, seg.ExtraData, got)
		}
	}
}

func TestUpdateRepopulatesAfterEviction(t *testing.T) {
	fs := newFrameState()
	tmpl := NewNormalBorderTemplate(normalKey(2))
	tmpl.Update(fs)

	if !fs.GPUCache.Evict(tmpl.Common.GPUHandle) {
		t.Fatal("expected eviction")
	}
	tmpl.Update(fs)
	if got := fs.GPUCache.Stats().Writes; got != 2 {
		t.Errorf("expected 2 writes after eviction, got %d", got)
	}
	if !fs.GPUCache.IsValid(tmpl.Common.GPUHandle) {
		t.Error("expected the new handle to be valid")
	}
}

func TestImageBorderOpacity(t *testing.T) {
	tests := []struct {
		name     string
		register bool
		opaque   bool
		want     Opacity
		requests int
	}{
		{"unresolved", false, false, Opaque(), 0},
		{"resolved translucent", true, false, Translucent(), 1},
		{"resolved opaque", true, true, Opaque(), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gpu := gpucache.New(gpucache.DefaultConfig())
			gpu.BeginFrame()
			res := resource.NewCache()
			res.BeginFrame(gpu)
			key := imageKey()
			if tt.register {
				res.AddImage(key.Kind.Request.Key, resource.ImageDescriptor{Width: 30, Height: 30, IsOpaque: tt.opaque})
			}

			tmpl := NewImageBorderTemplate(key)
			tmpl.Update(&FrameState{GPUCache: gpu, Resources: res})

			if tmpl.Opacity() != tt.want {
				t.Errorf("expected %v, got %v", tt.want, tmpl.Opacity())
			}
			if got := len(res.PendingRequests()); got != tt.requests {
				t.Errorf("expected %d image requests, got %d", tt.requests, got)
			}
			if !gpu.IsValid(tmpl.Common.GPUHandle) {
				t.Error("expected the slot to be populated regardless of the image")
			}
		})
	}
}

func TestImageBorderWithoutResources(t *testing.T) {
	gpu := gpucache.New(gpucache.DefaultConfig())
	gpu.BeginFrame()
	tmpl := NewImageBorderTemplate(imageKey())
	tmpl.Update(&FrameState{GPUCache: gpu})
	if !tmpl.Opacity().IsOpaque {
		t.Error("expected opaque placeholder without resources")
	}
}

func TestImageBorderTemplateSegments(t *testing.T) {
	key := imageKey()
	tmpl := NewImageBorderTemplate(key)
	want := key.Kind.NinePatch.CreateSegments(geom.Size{Width: 100, Height: 50})
	if len(tmpl.BrushSegments) != len(want) {
		t.Fatalf("expected %d segments, got %d", len(want), len(tmpl.BrushSegments))
	}
	for i := range want {
		if tmpl.BrushSegments[i] != want[i] {
			t.Errorf("segment %d: expected %+v, got %+v", i, want[i], tmpl.BrushSegments[i])
		}
	}
	if tmpl.Request != key.Kind.Request {
		t.Errorf("expected request %+v, got %+v", key.Kind.Request, tmpl.Request)
	}
}

func TestBuildTemplate(t *testing.T) {
	if _, ok := BuildTemplate(normalKey(2)).(*NormalBorderTemplate); !ok {
		t.Error("expected *NormalBorderTemplate")
	}
	if _, ok := BuildTemplate(imageKey()).(*ImageBorderTemplate); !ok {
		t.Error("expected *ImageBorderTemplate")
	}
}

func TestResetForReuse(t *testing.T) {
	fs := newFrameState()
	templates := []interface {
		BorderTemplate
		ResetForReuse()
	}{
		NewNormalBorderTemplate(normalKey(2)),
		NewImageBorderTemplate(imageKey()),
	}
	for i, tmpl := range templates {
		tmpl.Update(fs)
		handle := tmpl.CommonData().GPUHandle
		tmpl.ResetForReuse()
		if tmpl.CommonData().GPUHandle != handle {
			t.Errorf("template %d: expected GPU handle %v kept after reset, got %v",
				i, handle, tmpl.CommonData().GPUHandle)
		}
		if !fs.GPUCache.IsValid(handle) {
			t.Errorf("template %d: expected GPU slot to stay live", i)
		}
		if tmpl.Opacity().IsOpaque {
			t.Errorf("template %d: expected translucent after reset", i)
		}
	}
}

func TestAsInstanceKind(t *testing.T) {
	nk := normalKey(2)
	ni := intern.NewInterner[NormalBorderKey, SceneData, NormalBorderMarker](-1)
	nh := ni.Intern(nk, func() SceneData { return NewSceneData(nk.Common) })

	kind, ok := nk.AsInstanceKind(nh).(NormalBorderInstance)
	if !ok {
		t.Fatal("expected NormalBorderInstance")
	}
	if kind.DataHandle != nh {
		t.Errorf("expected handle %v, got %v", nh, kind.DataHandle)
	}
	if !kind.CacheHandles.IsEmpty() || kind.CacheHandles != storage.EmptyRange[gpucache.Handle]() {
		t.Errorf("expected empty cache handle range, got %v", kind.CacheHandles)
	}

	ik := imageKey()
	ii := intern.NewInterner[ImageBorderKey, SceneData, ImageBorderMarker](-1)
	ih := ii.Intern(ik, func() SceneData { return NewSceneData(ik.Common) })
	if got, ok := ik.AsInstanceKind(ih).(ImageBorderInstance); !ok || got.DataHandle != ih {
		t.Errorf("expected ImageBorderInstance with handle %v, got %+v", ih, got)
	}
}
