package frame

import (
	"context"
	"fmt"

	"github.com/gogpu/primcache"
	"github.com/gogpu/primcache/geom"
	"github.com/gogpu/primcache/prim"
)

// Scene is the result of a scene build: the placed instances, in paint
// order.
type Scene struct {
	Instances []prim.Instance
	Stats     SceneStats
}

// SceneStats summarizes the interner activity of one scene build.
type SceneStats struct {
	Instances       int
	NormalTemplates int
	ImageTemplates  int
	Inserted        int
	Removed         int
}

// SceneBuilder collects the borders of one scene.
type SceneBuilder struct {
	store     *Store
	instances []prim.Instance
}

// NewScene starts a scene build. Only one scene may be built at a time.
func (s *Store) NewScene() *SceneBuilder {
	return &SceneBuilder{store: s}
}

// AddBorder interns a border and appends an instance of it.
func (b *SceneBuilder) AddBorder(info geom.PrimitiveInfo, clip geom.Rect, content prim.BorderContent) prim.Instance {
	var kind prim.InstanceKind
	switch k := prim.BuildKey(content, info, clip).(type) {
	case prim.NormalBorderKey:
		h := b.store.normalInterner.Intern(k, func() prim.SceneData { return prim.NewSceneData(k.Common) })
		kind = k.AsInstanceKind(h)
	case prim.ImageBorderKey:
		h := b.store.imageInterner.Intern(k, func() prim.SceneData { return prim.NewSceneData(k.Common) })
		kind = k.AsInstanceKind(h)
	}
	inst := prim.Instance{Kind: kind, Rect: info.Rect}
	b.instances = append(b.instances, inst)
	return inst
}

// AddBorderWithShadow adds a border under a drop shadow. Normal borders get
// a shadow instance, offset by the shadow offset and painted first; image
// borders have no shadow form and are added alone.
func (b *SceneBuilder) AddBorderWithShadow(
	info geom.PrimitiveInfo,
	clip geom.Rect,
	content prim.BorderContent,
	shadow prim.Shadow,
) []prim.Instance {
	var out []prim.Instance
	if nb, ok := content.(prim.NormalBorderPrim); ok {
		shadowInfo := info
		shadowInfo.Rect = info.Rect.Translate(shadow.Offset)
		out = append(out, b.AddBorder(shadowInfo, clip, nb.CreateShadow(shadow)))
	}
	return append(out, b.AddBorder(info, clip, content))
}

// Len returns the number of instances added so far.
func (b *SceneBuilder) Len() int {
	return len(b.instances)
}

// Finish ends the scene build: the interners drop keys unused for too long
// and new templates are built, in parallel, for keys seen for the first
// time. Finish only fails if ctx is done before it starts; the interned
// keys then carry over to the next scene.
func (b *SceneBuilder) Finish(ctx context.Context) (*Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("frame: finish scene: %w", err)
	}
	s := b.store

	normalUpdates := s.normalInterner.EndFrameAndGetPendingUpdates()
	imageUpdates := s.imageInterner.EndFrameAndGetPendingUpdates()

	// The interners have handed out their updates; the stores must apply
	// them in full.
	ctx = context.WithoutCancel(ctx)
	workers := s.buildWorkers()
	if err := s.normalStore.ApplyUpdatesParallel(ctx, normalUpdates, prim.NewNormalBorderTemplate, workers); err != nil {
		return nil, fmt.Errorf("frame: build normal border templates: %w", err)
	}
	if err := s.imageStore.ApplyUpdatesParallel(ctx, imageUpdates, prim.NewImageBorderTemplate, workers); err != nil {
		return nil, fmt.Errorf("frame: build image border templates: %w", err)
	}

	scene := &Scene{
		Instances: b.instances,
		Stats: SceneStats{
			Instances:       len(b.instances),
			NormalTemplates: s.normalStore.Len(),
			ImageTemplates:  s.imageStore.Len(),
			Inserted:        len(normalUpdates.Insertions) + len(imageUpdates.Insertions),
			Removed:         len(normalUpdates.Removals) + len(imageUpdates.Removals),
		},
	}
	b.instances = nil

	primcache.ComponentLogger("frame").Debug("scene built",
		"instances", scene.Stats.Instances,
		"normal_templates", scene.Stats.NormalTemplates,
		"image_templates", scene.Stats.ImageTemplates,
		"inserted", scene.Stats.Inserted,
		"removed", scene.Stats.Removed,
	)
	return scene, nil
}
