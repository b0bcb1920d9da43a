package prim

import (
	"encoding/binary"
	"hash"
	"hash/fnv"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/primcache/border"
	"github.com/gogpu/primcache/geom"
	"github.com/gogpu/primcache/resource"
)

// Variant tags keep the hashes of the two key kinds apart.
const (
	tagNormalBorder = 'N'
	tagImageBorder  = 'I'
)

// keyHasher feeds fixed-width little-endian fields into FNV-1a.
type keyHasher struct {
	h   hash.Hash64
	buf [4]byte
}

func newKeyHasher(tag byte) *keyHasher {
	k := &keyHasher{h: fnv.New64a()}
	k.u8(tag)
	return k
}

func (k *keyHasher) u8(v uint8) {
	k.buf[0] = v
	_, _ = k.h.Write(k.buf[:1]) // fnv.Write never returns an error
}

func (k *keyHasher) u32(v uint32) {
	binary.LittleEndian.PutUint32(k.buf[:], v)
	_, _ = k.h.Write(k.buf[:])
}

func (k *keyHasher) i32(v int32) { k.u32(uint32(v)) }

func (k *keyHasher) au(v fixed.Int26_6) { k.u32(uint32(v)) }

func (k *keyHasher) boolean(v bool) {
	if v {
		k.u8(1)
	} else {
		k.u8(0)
	}
}

func (k *keyHasher) size(s geom.SizeAu) {
	k.au(s.Width)
	k.au(s.Height)
}

func (k *keyHasher) sideOffsets(s geom.SideOffsetsAu) {
	k.au(s.Top)
	k.au(s.Right)
	k.au(s.Bottom)
	k.au(s.Left)
}

func (k *keyHasher) common(c KeyCommon) {
	k.size(c.Size)
	k.au(c.ClipRect.Origin.X)
	k.au(c.ClipRect.Origin.Y)
	k.size(c.ClipRect.Size)
	k.boolean(c.BackfaceVisible)
}

func (k *keyHasher) side(s border.SideAu) {
	k.u8(s.Color.R)
	k.u8(s.Color.G)
	k.u8(s.Color.B)
	k.u8(s.Color.A)
	k.u8(uint8(s.Style))
}

func (k *keyHasher) request(r resource.ImageRequest) {
	k.u32(r.Key.Namespace)
	k.u32(r.Key.ID)
	k.u8(uint8(r.Rendering))
	k.i32(r.Tile.X)
	k.i32(r.Tile.Y)
	k.boolean(r.HasTile)
}

func (k *keyHasher) ninePatch(d border.NinePatchDescriptor) {
	k.i32(d.Width)
	k.i32(d.Height)
	k.i32(d.Slice.Top)
	k.i32(d.Slice.Right)
	k.i32(d.Slice.Bottom)
	k.i32(d.Slice.Left)
	k.boolean(d.Fill)
	k.u8(uint8(d.RepeatHorizontal))
	k.u8(uint8(d.RepeatVertical))
	k.sideOffsets(d.Outset)
	k.sideOffsets(d.Widths)
}

// Hash returns a stable 64-bit hash of the key. Equal keys hash equally
// across processes and runs.
func (k NormalBorderKey) Hash() uint64 {
	h := newKeyHasher(tagNormalBorder)
	h.common(k.Common)
	b := k.Kind.Border
	h.side(b.Left)
	h.side(b.Right)
	h.side(b.Top)
	h.side(b.Bottom)
	h.size(b.Radius.TopLeft)
	h.size(b.Radius.TopRight)
	h.size(b.Radius.BottomLeft)
	h.size(b.Radius.BottomRight)
	h.boolean(b.DoAA)
	h.sideOffsets(k.Kind.Widths)
	return h.h.Sum64()
}

// Hash returns a stable 64-bit hash of the key.
func (k ImageBorderKey) Hash() uint64 {
	h := newKeyHasher(tagImageBorder)
	h.common(k.Common)
	h.request(k.Kind.Request)
	h.ninePatch(k.Kind.NinePatch)
	return h.h.Sum64()
}
