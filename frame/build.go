package frame

import (
	"github.com/gogpu/primcache"
	"github.com/gogpu/primcache/gpucache"
	"github.com/gogpu/primcache/prim"
)

// FrameStats summarizes one frame build.
type FrameStats struct {
	Frame gpucache.FrameID
	// Instances is the number of instances walked.
	Instances int
	// UniqueTemplates is the number of distinct templates updated.
	UniqueTemplates int
	SlotsWritten    int
	BlocksWritten   int
	// Opaque and Translucent count instances by their template's opacity.
	Opaque        int
	Translucent   int
	ImageRequests int
	Evicted       int
}

// BuildFrame updates every template referenced by scene once and closes the
// GPU cache frame. Instances sharing a template trigger one update.
func (s *Store) BuildFrame(scene *Scene) FrameStats {
	frameID := s.gpu.BeginFrame()
	s.resources.BeginFrame(s.gpu)

	fs := &prim.FrameState{GPUCache: s.gpu, Resources: s.resources}
	stats := FrameStats{Frame: frameID, Instances: len(scene.Instances)}

	seenNormal := make(map[prim.NormalBorderHandle]struct{})
	seenImage := make(map[prim.ImageBorderHandle]struct{})

	for _, inst := range scene.Instances {
		var tmpl prim.BorderTemplate
		switch k := inst.Kind.(type) {
		case prim.NormalBorderInstance:
			t := s.normalStore.Get(k.DataHandle)
			if _, seen := seenNormal[k.DataHandle]; !seen {
				seenNormal[k.DataHandle] = struct{}{}
				t.Update(fs)
				stats.UniqueTemplates++
			}
			tmpl = t
		case prim.ImageBorderInstance:
			t := s.imageStore.Get(k.DataHandle)
			if _, seen := seenImage[k.DataHandle]; !seen {
				seenImage[k.DataHandle] = struct{}{}
				t.Update(fs)
				stats.UniqueTemplates++
			}
			tmpl = t
		default:
			continue
		}
		if tmpl.Opacity().IsOpaque {
			stats.Opaque++
		} else {
			stats.Translucent++
		}
	}

	stats.ImageRequests = len(s.resources.PendingRequests())
	updates := s.gpu.EndFrame()
	s.pending = s.pending.Merge(updates)
	s.frames++

	stats.SlotsWritten = updates.SlotsWritten
	stats.BlocksWritten = updates.BlocksWritten
	stats.Evicted = updates.Evicted

	primcache.ComponentLogger("frame").Debug("frame built",
		"frame", stats.Frame,
		"instances", stats.Instances,
		"unique_templates", stats.UniqueTemplates,
		"slots_written", stats.SlotsWritten,
		"image_requests", stats.ImageRequests,
	)
	return stats
}
