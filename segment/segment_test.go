package segment

import (
	"testing"

	"github.com/gogpu/primcache/geom"
)

func TestNew(t *testing.T) {
	rect := geom.NewRect(1, 2, 3, 4)
	extra := [4]float32{0, 0, 8, 8}
	seg := New(rect, true, EdgeTop|EdgeLeft, extra, FlagSegmentRelative)

	if seg.LocalRect != rect {
		t.Errorf("expected rect %v, got %v", rect, seg.LocalRect)
	}
	if !seg.MayNeedClipMask {
		t.Error("expected MayNeedClipMask to be set")
	}
	if seg.EdgeFlags&EdgeRight != 0 || seg.EdgeFlags&EdgeTop == 0 {
		t.Errorf("unexpected edge flags %04b", seg.EdgeFlags)
	}
	if seg.ExtraData != extra {
		t.Errorf("expected extra %v, got %v", extra, seg.ExtraData)
	}
}

func TestEdgeAll(t *testing.T) {
	if EdgeAll != 0b1111 {
		t.Errorf("expected EdgeAll = 0b1111, got %04b", EdgeAll)
	}
	if EdgeNone != 0 {
		t.Errorf("expected EdgeNone = 0, got %d", EdgeNone)
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{KindCorner.String(), "corner"},
		{KindEdge.String(), "edge"},
		{Kind(9).String(), "unknown"},
		{TopLeft.String(), "top-left"},
		{BottomLeft.String(), "bottom-left"},
		{Left.String(), "left"},
		{Position(42).String(), "unknown"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, tt.got)
		}
	}
}

func TestCacheKeyComparable(t *testing.T) {
	a := CacheKey{Kind: KindEdge, Position: Top, Size: geom.Size{Width: 10, Height: 2}.Au()}
	b := a
	m := map[CacheKey]int{a: 1}
	if m[b] != 1 {
		t.Error("expected equal cache keys to share a map entry")
	}
	b.Position = Bottom
	if _, ok := m[b]; ok {
		t.Error("expected different positions to give different keys")
	}
}
