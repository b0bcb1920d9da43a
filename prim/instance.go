package prim

import (
	"github.com/gogpu/primcache/geom"
	"github.com/gogpu/primcache/gpucache"
	"github.com/gogpu/primcache/intern"
	"github.com/gogpu/primcache/storage"
)

// NormalBorderMarker tags handles into the normal border store.
type NormalBorderMarker struct{}

// ImageBorderMarker tags handles into the image border store.
type ImageBorderMarker struct{}

// SceneData is the scene-side data kept by the interners for each entry.
type SceneData struct {
	Size            geom.Size
	ClipRect        geom.Rect
	BackfaceVisible bool
}

// NewSceneData expands the placement fields of a key.
func NewSceneData(k KeyCommon) SceneData {
	return SceneData{
		Size:            k.Size.Size(),
		ClipRect:        k.ClipRect.Rect(),
		BackfaceVisible: k.BackfaceVisible,
	}
}

type (
	NormalBorderHandle     = intern.Handle[NormalBorderMarker]
	NormalBorderInterner   = intern.Interner[NormalBorderKey, SceneData, NormalBorderMarker]
	NormalBorderDataStore  = intern.DataStore[NormalBorderKey, *NormalBorderTemplate, NormalBorderMarker]
	NormalBorderUpdateList = intern.UpdateList[NormalBorderKey]

	ImageBorderHandle     = intern.Handle[ImageBorderMarker]
	ImageBorderInterner   = intern.Interner[ImageBorderKey, SceneData, ImageBorderMarker]
	ImageBorderDataStore  = intern.DataStore[ImageBorderKey, *ImageBorderTemplate, ImageBorderMarker]
	ImageBorderUpdateList = intern.UpdateList[ImageBorderKey]
)

// InstanceKind is the per-instance tag consumed by batching:
// NormalBorderInstance or ImageBorderInstance.
type InstanceKind interface {
	isInstanceKind()
}

// NormalBorderInstance references a normal border template.
type NormalBorderInstance struct {
	DataHandle NormalBorderHandle
	// CacheHandles addresses per-segment render task handles. It starts
	// empty and is filled by render paths that cache border segments.
	CacheHandles storage.Range[gpucache.Handle]
}

func (NormalBorderInstance) isInstanceKind() {}

// ImageBorderInstance references an image border template.
type ImageBorderInstance struct {
	DataHandle ImageBorderHandle
}

func (ImageBorderInstance) isInstanceKind() {}

// AsInstanceKind returns the instance tag for a key interned as h.
func (k NormalBorderKey) AsInstanceKind(h NormalBorderHandle) InstanceKind {
	return NormalBorderInstance{
		DataHandle:   h,
		CacheHandles: storage.EmptyRange[gpucache.Handle](),
	}
}

// AsInstanceKind returns the instance tag for a key interned as h.
func (k ImageBorderKey) AsInstanceKind(h ImageBorderHandle) InstanceKind {
	return ImageBorderInstance{DataHandle: h}
}

// Instance is one placement of a border in a scene.
type Instance struct {
	Kind InstanceKind
	// Rect is the placement rect in layout space.
	Rect geom.Rect
}
