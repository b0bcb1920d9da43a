package resource

import (
	"fmt"
	"io"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/primcache"
	"github.com/gogpu/primcache/gpucache"
)

type imageEntry struct {
	props  ImageProperties
	pixels []byte
}

// Stats is a snapshot of resource cache activity.
type Stats struct {
	Images   int
	Requests uint64
	Misses   uint64
	Pending  int
}

// Cache holds registered images and collects the image requests made
// during a frame. It is safe for concurrent use.
type Cache struct {
	mu sync.RWMutex

	images map[ImageKey]*imageEntry
	// uvHandles keeps one GPU cache slot per request for the UV rect.
	uvHandles map[ImageRequest]gpucache.Handle
	// retired holds the slots of replaced or removed images until the
	// next BeginFrame evicts them.
	retired []gpucache.Handle

	pending    []ImageRequest
	pendingSet map[ImageRequest]struct{}

	requests uint64
	misses   uint64
}

// NewCache creates an empty resource cache.
func NewCache() *Cache {
	return &Cache{
		images:     make(map[ImageKey]*imageEntry),
		uvHandles:  make(map[ImageRequest]gpucache.Handle),
		pendingSet: make(map[ImageRequest]struct{}),
	}
}

// AddImage registers or replaces an image by descriptor only. Replacing an
// image bumps its epoch and retires its GPU cache slots; the next
// BeginFrame evicts them.
func (c *Cache) AddImage(key ImageKey, desc ImageDescriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(key, desc, nil)
}

// AddImageData decodes image data and registers it under key.
func (c *Cache) AddImageData(key ImageKey, r io.Reader) (ImageDescriptor, error) {
	desc, pixels, err := Decode(r)
	if err != nil {
		return ImageDescriptor{}, fmt.Errorf("resource: image %s: %w", key, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(key, desc, pixels)
	primcache.ComponentLogger("resource").Debug("image added",
		"key", key.String(), "width", desc.Width, "height", desc.Height, "opaque", desc.IsOpaque)
	return desc, nil
}

func (c *Cache) putLocked(key ImageKey, desc ImageDescriptor, pixels []byte) {
	if desc.Format == gputypes.TextureFormatUndefined {
		desc.Format = gputypes.TextureFormatRGBA8Unorm
	}
	entry, ok := c.images[key]
	if !ok {
		entry = &imageEntry{}
		c.images[key] = entry
	} else {
		c.dropUVHandlesLocked(key)
	}
	entry.props = ImageProperties{Descriptor: desc, Epoch: entry.props.Epoch + 1}
	entry.pixels = pixels
}

// RemoveImage unregisters an image and retires its GPU cache slots. It
// reports whether the key was known.
func (c *Cache) RemoveImage(key ImageKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.images[key]; !ok {
		return false
	}
	delete(c.images, key)
	c.dropUVHandlesLocked(key)
	return true
}

func (c *Cache) dropUVHandlesLocked(key ImageKey) {
	for req, h := range c.uvHandles {
		if req.Key == key {
			c.retired = append(c.retired, h)
			delete(c.uvHandles, req)
		}
	}
}

// ImageProperties returns the properties of a registered image.
func (c *Cache) ImageProperties(key ImageKey) (ImageProperties, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.images[key]
	if !ok {
		return ImageProperties{}, false
	}
	return entry.props, true
}

// Pixels returns the decoded RGBA8 pixels of an image added with
// AddImageData.
func (c *Cache) Pixels(key ImageKey) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.images[key]
	if !ok || entry.pixels == nil {
		return nil, false
	}
	return entry.pixels, true
}

// RequestImage records that req is needed this frame and makes sure its UV
// rect is present in gpu. Requests for unknown images are counted as misses
// and otherwise ignored.
func (c *Cache) RequestImage(req ImageRequest, gpu *gpucache.Cache) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests++
	entry, ok := c.images[req.Key]
	if !ok {
		c.misses++
		primcache.ComponentLogger("resource").Warn("request for unknown image", "key", req.Key.String())
		return
	}

	if _, seen := c.pendingSet[req]; !seen {
		c.pendingSet[req] = struct{}{}
		c.pending = append(c.pending, req)
	}

	if gpu == nil {
		return
	}
	h := c.uvHandles[req]
	if w := gpu.Request(&h); w != nil {
		d := entry.props.Descriptor
		w.PushF(0, 0, float32(d.Width), float32(d.Height))
		w.PushF(float32(req.Tile.X), float32(req.Tile.Y), float32(req.Rendering), 0)
		w.Finish()
	}
	c.uvHandles[req] = h
}

// UVHandle returns the GPU cache handle holding the UV rect of req.
func (c *Cache) UVHandle(req ImageRequest) (gpucache.Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.uvHandles[req]
	return h, ok
}

// BeginFrame clears the requests collected during the previous frame and
// evicts the slots of images replaced or removed since then. gpu may be nil
// when no GPU cache is in use.
func (c *Cache) BeginFrame(gpu *gpucache.Cache) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = c.pending[:0]
	clear(c.pendingSet)
	if gpu != nil {
		for _, h := range c.retired {
			gpu.Evict(h)
		}
	}
	clear(c.retired)
	c.retired = c.retired[:0]
}

// PendingRequests returns the distinct requests made this frame in request
// order.
func (c *Cache) PendingRequests() []ImageRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ImageRequest, len(c.pending))
	copy(out, c.pending)
	return out
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Images:   len(c.images),
		Requests: c.requests,
		Misses:   c.misses,
		Pending:  len(c.pending),
	}
}
