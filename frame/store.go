// Package frame drives scene and frame building for border primitives.
//
// A [Store] owns the interners, the template stores, the GPU cache and the
// resource cache. Scenes are built with a [SceneBuilder]; every finished
// scene applies the interners' updates to the template stores. Frames are
// built from a scene with [Store.BuildFrame], which updates every
// referenced template exactly once.
package frame

import (
	"runtime"

	"github.com/gogpu/primcache/gpucache"
	"github.com/gogpu/primcache/intern"
	"github.com/gogpu/primcache/prim"
	"github.com/gogpu/primcache/resource"
)

// Options configures a Store.
type Options struct {
	// RetainFrames is how many scene builds an unused key survives.
	// Negative selects intern.DefaultRetainFrames.
	RetainFrames int
	// ReuseCapacity bounds how many removed templates are kept for reuse.
	ReuseCapacity int
	// BuildWorkers bounds parallel template construction. Zero means
	// GOMAXPROCS.
	BuildWorkers int
	GPUCache     gpucache.Config
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		RetainFrames:  intern.DefaultRetainFrames,
		ReuseCapacity: 256,
		GPUCache:      gpucache.DefaultConfig(),
	}
}

// Store holds the interned border state shared across scenes and frames.
// It is not safe for concurrent use: one goroutine builds scenes and
// frames.
type Store struct {
	opts Options

	normalInterner *prim.NormalBorderInterner
	imageInterner  *prim.ImageBorderInterner
	normalStore    *prim.NormalBorderDataStore
	imageStore     *prim.ImageBorderDataStore

	gpu       *gpucache.Cache
	resources *resource.Cache

	frames  uint64
	pending gpucache.Updates
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	return &Store{
		opts:           opts,
		normalInterner: intern.NewInterner[prim.NormalBorderKey, prim.SceneData, prim.NormalBorderMarker](opts.RetainFrames),
		imageInterner:  intern.NewInterner[prim.ImageBorderKey, prim.SceneData, prim.ImageBorderMarker](opts.RetainFrames),
		normalStore:    intern.NewDataStore[prim.NormalBorderKey, *prim.NormalBorderTemplate, prim.NormalBorderMarker](opts.ReuseCapacity),
		imageStore:     intern.NewDataStore[prim.ImageBorderKey, *prim.ImageBorderTemplate, prim.ImageBorderMarker](opts.ReuseCapacity),
		gpu:            gpucache.New(opts.GPUCache),
		resources:      resource.NewCache(),
	}
}

// GPUCache returns the store's GPU cache.
func (s *Store) GPUCache() *gpucache.Cache { return s.gpu }

// Resources returns the store's resource cache.
func (s *Store) Resources() *resource.Cache { return s.resources }

// Frames returns the number of frames built.
func (s *Store) Frames() uint64 { return s.frames }

// Template returns the template an instance refers to.
func (s *Store) Template(kind prim.InstanceKind) (prim.BorderTemplate, bool) {
	switch k := kind.(type) {
	case prim.NormalBorderInstance:
		t, ok := s.normalStore.Lookup(k.DataHandle)
		return t, ok
	case prim.ImageBorderInstance:
		t, ok := s.imageStore.Lookup(k.DataHandle)
		return t, ok
	default:
		return nil, false
	}
}

// TemplateCounts returns the number of live normal and image templates.
func (s *Store) TemplateCounts() (normal, image int) {
	return s.normalStore.Len(), s.imageStore.Len()
}

// StoreStats returns the build and reuse counters of both template stores.
func (s *Store) StoreStats() (normal, image intern.StoreStats) {
	return s.normalStore.Stats(), s.imageStore.Stats()
}

func (s *Store) buildWorkers() int {
	if s.opts.BuildWorkers > 0 {
		return s.opts.BuildWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// Upload sends the GPU cache changes of every frame built since the last
// upload through up.
func (s *Store) Upload(up *gpucache.Uploader) (any, error) {
	tex, err := up.Upload(s.gpu, s.pending)
	if err != nil {
		return nil, err
	}
	s.pending = gpucache.Updates{}
	return tex, nil
}
