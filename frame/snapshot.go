package frame

import (
	"fmt"

	"github.com/gogpu/primcache/capture"
	"github.com/gogpu/primcache/prim"
	"github.com/gogpu/primcache/segment"
)

// Snapshot captures a summary of every live template.
func (s *Store) Snapshot() *capture.Snapshot {
	snap := &capture.Snapshot{
		Version: capture.Version,
		Frame:   uint64(s.gpu.Frame()),
	}

	s.normalStore.Each(func(h prim.NormalBorderHandle, t *prim.NormalBorderTemplate) {
		key, _ := s.normalStore.Key(h)
		w := t.Widths
		b := t.Border
		snap.NormalBorders = append(snap.NormalBorders, capture.NormalBorderItem{
			Template: captureTemplate(h.String(), key.Hash(), &t.Common, t.BrushSegments),
			Widths:   [4]float32{w.Top, w.Right, w.Bottom, w.Left},
			Styles:   [4]string{b.Top.Style.String(), b.Right.Style.String(), b.Bottom.Style.String(), b.Left.Style.String()},
		})
	})
	s.imageStore.Each(func(h prim.ImageBorderHandle, t *prim.ImageBorderTemplate) {
		key, _ := s.imageStore.Key(h)
		snap.ImageBorders = append(snap.ImageBorders, capture.ImageBorderItem{
			Template:  captureTemplate(h.String(), key.Hash(), &t.Common, t.BrushSegments),
			Image:     t.Request.Key.String(),
			Rendering: t.Request.Rendering.String(),
		})
	})

	st := s.gpu.Stats()
	snap.GPUCache = capture.GPUCacheSummary{
		Slots:           st.Slots,
		Rows:            st.Rows,
		AllocatedBlocks: st.AllocatedBlocks,
		UsedBlocks:      st.UsedBlocks,
		Evictions:       st.Evictions,
	}
	return snap
}

func captureTemplate(handle string, hash uint64, c *prim.TemplateCommon, segs []segment.BrushSegment) capture.Template {
	out := capture.Template{
		Handle:   handle,
		Hash:     fmt.Sprintf("%016x", hash),
		Size:     [2]float32{c.Size.Width, c.Size.Height},
		Opacity:  c.Opacity.String(),
		Segments: make([]capture.Segment, len(segs)),
	}
	for i, seg := range segs {
		r := seg.LocalRect
		out.Segments[i] = capture.Segment{
			Rect:       [4]float32{r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height},
			Extra:      seg.ExtraData,
			EdgeFlags:  uint8(seg.EdgeFlags),
			BrushFlags: uint8(seg.BrushFlags),
		}
	}
	return out
}
