package gpucache

import (
	"fmt"
	"math/bits"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/primcache"
	"github.com/gogpu/primcache/color"
	"github.com/gogpu/primcache/geom"
	"github.com/gogpu/primcache/internal/lru"
)

// RowWidth is the number of blocks in one arena row (the texture width in
// blocks). It is also the largest slot size.
const RowWidth = 1024

// numClasses is the number of power-of-two slot sizes, 1 through RowWidth.
const numClasses = 11

// Block is one GPU cache block.
type Block = mgl32.Vec4

// FrameID counts frames built with the cache.
type FrameID uint64

// Address locates a block in the arena: U is the column, V the row.
type Address struct {
	U, V uint16
}

// Offset returns the linear block index of the address.
func (a Address) Offset() int {
	return int(a.V)*RowWidth + int(a.U)
}

func (a Address) String() string {
	return fmt.Sprintf("(%d,%d)", a.U, a.V)
}

// Handle refers to a slot. The zero Handle has never been populated.
type Handle struct {
	slot  uint32 // slot index + 1
	epoch uint32
}

// IsZero reports whether the handle was never populated.
func (h Handle) IsZero() bool {
	return h.slot == 0
}

// Config controls the eviction policy.
type Config struct {
	// MaxBlocks is the number of allocated blocks above which EndFrame
	// evicts idle slots.
	MaxBlocks int
	// EvictAfterFrames is how many frames a slot must sit unrequested
	// before it may be evicted. Zero acts as 1: slots used in the current
	// frame are never evicted.
	EvictAfterFrames uint64
}

// DefaultConfig returns a 1M block (16 MiB) budget with a 60 frame grace
// period.
func DefaultConfig() Config {
	return Config{
		MaxBlocks:        1 << 20,
		EvictAfterFrames: 60,
	}
}

type slotState uint8

const (
	slotFree slotState = iota
	slotPending
	slotLive
)

type slot struct {
	state     slotState
	epoch     uint32
	address   Address
	class     uint8
	used      int
	lastFrame FrameID
	node      *lru.Node[uint32]
}

// Stats is a snapshot of cache occupancy and activity.
type Stats struct {
	Frame           FrameID
	Slots           int
	Rows            int
	AllocatedBlocks int
	UsedBlocks      int
	Requests        uint64
	Hits            uint64
	Writes          uint64
	Evictions       uint64
}

// Updates describes what changed during a frame, for uploading.
type Updates struct {
	Frame FrameID
	// Rows is the arena height; the texture must have this many rows.
	Rows int
	// DirtyRows lists rows written this frame, in ascending order.
	DirtyRows []int
	// Cleared is set when the arena was reset and must be uploaded in full.
	Cleared       bool
	SlotsWritten  int
	BlocksWritten int
	Evicted       int
}

// Merge folds a later frame's updates into u, for uploaders that skip
// frames.
func (u Updates) Merge(next Updates) Updates {
	out := Updates{
		Frame:         next.Frame,
		Rows:          next.Rows,
		Cleared:       u.Cleared || next.Cleared,
		SlotsWritten:  u.SlotsWritten + next.SlotsWritten,
		BlocksWritten: u.BlocksWritten + next.BlocksWritten,
		Evicted:       u.Evicted + next.Evicted,
	}
	if out.Cleared {
		return out
	}
	out.DirtyRows = append(slices.Clone(u.DirtyRows), next.DirtyRows...)
	slices.Sort(out.DirtyRows)
	out.DirtyRows = slices.Compact(out.DirtyRows)
	return out
}

// Cache is the block arena. It is safe for concurrent use; population of a
// single handle must still be serialized by its owner.
type Cache struct {
	mu  sync.Mutex
	cfg Config

	data      []Block
	rowClass  []uint8
	freeLists [numClasses][]Address
	allocated int
	used      int

	slots     []slot
	freeSlots []uint32
	recency   *lru.List[uint32]

	frame     FrameID
	dirty     map[int]struct{}
	cleared   bool
	frameSlot int
	frameBlk  int
	frameEvic int

	requests  uint64
	hits      uint64
	writes    uint64
	evictions uint64
}

// New creates an empty cache.
func New(cfg Config) *Cache {
	if cfg.MaxBlocks <= 0 {
		cfg.MaxBlocks = DefaultConfig().MaxBlocks
	}
	return &Cache{
		cfg:     cfg,
		recency: lru.NewList[uint32](),
		dirty:   make(map[int]struct{}),
	}
}

// BeginFrame starts a new frame. Slots requested from now on are stamped
// with the new frame.
func (c *Cache) BeginFrame() FrameID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame++
	return c.frame
}

// Frame returns the current frame.
func (c *Cache) Frame() FrameID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Request returns nil if h refers to a live slot, marking it used this
// frame. Otherwise it reserves a slot, points h at it and returns a writer
// that must be finished before the next Request for the same handle.
func (c *Cache) Request(h *Handle) *Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests++
	if s := c.lookup(*h); s != nil {
		switch s.state {
		case slotLive:
			s.lastFrame = c.frame
			c.recency.MoveToFront(s.node)
			c.hits++
			return nil
		case slotPending:
			panic("gpucache: request for handle with an unfinished request")
		}
	}

	index := c.reserveSlot()
	*h = Handle{slot: index + 1, epoch: c.slots[index].epoch}
	return &Request{cache: c, handle: *h}
}

// IsValid reports whether h refers to a populated, unevicted slot.
func (c *Cache) IsValid(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.lookup(h)
	return s != nil && s.state == slotLive
}

// Address returns the address of the first block of a live slot.
func (c *Cache) Address(h Handle) (Address, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.lookup(h)
	if s == nil || s.state != slotLive {
		return Address{}, false
	}
	return s.address, true
}

// Blocks returns a copy of the blocks written to a live slot.
func (c *Cache) Blocks(h Handle) ([]Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.lookup(h)
	if s == nil || s.state != slotLive {
		return nil, false
	}
	off := s.address.Offset()
	out := make([]Block, s.used)
	copy(out, c.data[off:off+s.used])
	return out, true
}

// CopyRow copies row v into dst, which must hold RowWidth blocks. Rows
// beyond the arena read as zero.
func (c *Cache) CopyRow(v int, dst []Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dst = dst[:RowWidth]
	if v < 0 || v >= len(c.rowClass) {
		clear(dst)
		return
	}
	copy(dst, c.data[v*RowWidth:(v+1)*RowWidth])
}

// Evict frees the slot h refers to, if any.
func (c *Cache) Evict(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.lookup(h)
	if s == nil || s.state != slotLive {
		return false
	}
	c.freeSlot(h.slot - 1)
	c.evictions++
	c.frameEvic++
	return true
}

// Clear frees every slot. All handles become stale and the next upload
// must be a full one.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.slots {
		if c.slots[i].state != slotFree {
			c.freeSlot(uint32(i))
		}
	}
	c.data = c.data[:0]
	c.rowClass = c.rowClass[:0]
	for i := range c.freeLists {
		c.freeLists[i] = c.freeLists[i][:0]
	}
	c.allocated = 0
	c.used = 0
	c.dirty = make(map[int]struct{})
	c.cleared = true
	primcache.ComponentLogger("gpucache").Info("gpu cache cleared", "frame", c.frame)
}

// EndFrame evicts idle slots when over budget and returns the frame's
// updates.
func (c *Cache) EndFrame() Updates {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A request never finished within its frame is abandoned.
	for i := range c.slots {
		if c.slots[i].state == slotPending {
			primcache.ComponentLogger("gpucache").Warn("abandoned gpu cache request", "slot", i)
			c.freeSlot(uint32(i))
		}
	}

	c.evictIdle()

	u := Updates{
		Frame:         c.frame,
		Rows:          len(c.rowClass),
		Cleared:       c.cleared,
		SlotsWritten:  c.frameSlot,
		BlocksWritten: c.frameBlk,
		Evicted:       c.frameEvic,
	}
	if !c.cleared {
		u.DirtyRows = make([]int, 0, len(c.dirty))
		for v := range c.dirty {
			u.DirtyRows = append(u.DirtyRows, v)
		}
		slices.Sort(u.DirtyRows)
	}

	c.dirty = make(map[int]struct{})
	c.cleared = false
	c.frameSlot, c.frameBlk, c.frameEvic = 0, 0, 0

	primcache.ComponentLogger("gpucache").Debug("gpu cache frame done",
		"frame", u.Frame,
		"slots_written", u.SlotsWritten,
		"blocks_written", u.BlocksWritten,
		"evicted", u.Evicted,
		"rows", u.Rows,
	)
	return u
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Frame:           c.frame,
		Slots:           c.recency.Len(),
		Rows:            len(c.rowClass),
		AllocatedBlocks: c.allocated,
		UsedBlocks:      c.used,
		Requests:        c.requests,
		Hits:            c.hits,
		Writes:          c.writes,
		Evictions:       c.evictions,
	}
}

// lookup returns the slot h refers to, or nil if h is zero or stale.
// Caller must hold c.mu.
func (c *Cache) lookup(h Handle) *slot {
	if h.slot == 0 || int(h.slot) > len(c.slots) {
		return nil
	}
	s := &c.slots[h.slot-1]
	if s.state == slotFree || s.epoch != h.epoch {
		return nil
	}
	return s
}

// reserveSlot takes a free slot index and marks it pending.
// Caller must hold c.mu.
func (c *Cache) reserveSlot() uint32 {
	var index uint32
	if n := len(c.freeSlots); n > 0 {
		index = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		index = uint32(len(c.slots))
		c.slots = append(c.slots, slot{epoch: 1})
	}
	c.slots[index].state = slotPending
	return index
}

// commit allocates blocks for a pending slot and copies the staged data.
func (c *Cache) commit(h Handle, blocks []Block) Address {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(h)
	if s == nil || s.state != slotPending {
		panic("gpucache: finish on a request that is no longer pending")
	}
	n := len(blocks)
	if n == 0 {
		n = 1
	}
	if n > RowWidth {
		panic(fmt.Sprintf("gpucache: slot of %d blocks exceeds row width %d", n, RowWidth))
	}

	class := uint8(bits.Len(uint(n - 1)))
	addr := c.allocChunk(class)
	off := addr.Offset()
	copy(c.data[off:], blocks)
	for i := len(blocks); i < 1<<class; i++ {
		c.data[off+i] = Block{}
	}

	s.state = slotLive
	s.address = addr
	s.class = class
	s.used = len(blocks)
	s.lastFrame = c.frame
	s.node = c.recency.PushFront(h.slot - 1)

	c.used += len(blocks)
	c.dirty[int(addr.V)] = struct{}{}
	c.writes++
	c.frameSlot++
	c.frameBlk += len(blocks)
	return addr
}

// allocChunk returns the address of a free chunk of 1<<class blocks,
// growing the arena by one row when needed. Caller must hold c.mu.
func (c *Cache) allocChunk(class uint8) Address {
	free := c.freeLists[class]
	if len(free) == 0 {
		v := len(c.rowClass)
		if v > 0xFFFF {
			panic("gpucache: arena exceeds 65536 rows")
		}
		c.rowClass = append(c.rowClass, class)
		c.data = append(c.data, make([]Block, RowWidth)...)
		size := 1 << class
		for u := RowWidth - size; u >= 0; u -= size {
			free = append(free, Address{U: uint16(u), V: uint16(v)})
		}
	}
	addr := free[len(free)-1]
	c.freeLists[class] = free[:len(free)-1]
	c.allocated += 1 << class
	return addr
}

// freeSlot releases a pending or live slot and bumps its epoch.
// Caller must hold c.mu.
func (c *Cache) freeSlot(index uint32) {
	s := &c.slots[index]
	if s.state == slotLive {
		c.freeLists[s.class] = append(c.freeLists[s.class], s.address)
		c.allocated -= 1 << s.class
		c.used -= s.used
		c.recency.Remove(s.node)
	}
	*s = slot{epoch: s.epoch + 1}
	c.freeSlots = append(c.freeSlots, index)
}

// evictIdle frees least recently used slots idle for at least
// EvictAfterFrames while the arena is over budget. Caller must hold c.mu.
func (c *Cache) evictIdle() {
	grace := max(c.cfg.EvictAfterFrames, 1)
	node := c.recency.Oldest()
	for node != nil && c.allocated > c.cfg.MaxBlocks {
		s := &c.slots[node.Key]
		if uint64(c.frame-s.lastFrame) < grace {
			// Everything newer was used even more recently.
			break
		}
		next := c.recency.Newer(node)
		c.freeSlot(node.Key)
		c.evictions++
		c.frameEvic++
		node = next
	}
}

// Request stages the blocks of one slot. It is not safe for concurrent use.
type Request struct {
	cache  *Cache
	handle Handle
	blocks []Block
	done   bool
}

// Push appends a block.
func (r *Request) Push(b Block) {
	if r.done {
		panic("gpucache: push after finish")
	}
	r.blocks = append(r.blocks, b)
}

// PushF appends a block from four components.
func (r *Request) PushF(x, y, z, w float32) {
	r.Push(Block{x, y, z, w})
}

// PushColor appends a premultiplied colour block.
func (r *Request) PushColor(col color.PremultipliedColorF) {
	r.Push(Block(col.Array()))
}

// WriteSegment appends the two blocks of a brush segment: its local rect
// as (x, y, width, height) followed by its extra data.
func (r *Request) WriteSegment(rect geom.Rect, extraData [4]float32) {
	r.PushF(rect.Origin.X, rect.Origin.Y, rect.Size.Width, rect.Size.Height)
	r.Push(Block(extraData))
}

// Len returns the number of staged blocks.
func (r *Request) Len() int {
	return len(r.blocks)
}

// Finish commits the staged blocks and returns the slot address.
func (r *Request) Finish() Address {
	if r.done {
		panic("gpucache: finish called twice")
	}
	r.done = true
	return r.cache.commit(r.handle, r.blocks)
}
