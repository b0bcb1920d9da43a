// Package capture writes and reads snapshots of interned border templates
// for offline inspection and regression comparison.
//
// A capture is a YAML document, optionally lz4 compressed. Read accepts
// both forms.
package capture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/primcache"
)

// Version is the capture format version written by Write.
const Version = 1

// Capture errors.
var (
	// ErrVersion is returned when a capture has an unsupported version.
	ErrVersion = errors.New("capture: unsupported version")

	// ErrNilSnapshot is returned when Write is given no snapshot.
	ErrNilSnapshot = errors.New("capture: nil snapshot")
)

// lz4Magic is the little-endian lz4 frame magic number.
var lz4Magic = []byte{0x04, 0x22, 0x4D, 0x18}

// Snapshot is the captured state of a store.
type Snapshot struct {
	Version       int                `yaml:"version"`
	Frame         uint64             `yaml:"frame"`
	NormalBorders []NormalBorderItem `yaml:"normal_borders"`
	ImageBorders  []ImageBorderItem  `yaml:"image_borders"`
	GPUCache      GPUCacheSummary    `yaml:"gpu_cache"`
}

// Template is the part of a template summary shared by both variants.
type Template struct {
	Handle   string     `yaml:"handle"`
	Hash     string     `yaml:"hash"`
	Size     [2]float32 `yaml:"size,flow"`
	Opacity  string     `yaml:"opacity"`
	Segments []Segment  `yaml:"segments"`
}

// NormalBorderItem summarizes a normal border template.
type NormalBorderItem struct {
	Template `yaml:",inline"`
	// Widths and Styles are in top, right, bottom, left order.
	Widths [4]float32 `yaml:"widths,flow"`
	Styles [4]string  `yaml:"styles,flow"`
}

// ImageBorderItem summarizes an image border template.
type ImageBorderItem struct {
	Template  `yaml:",inline"`
	Image     string `yaml:"image"`
	Rendering string `yaml:"rendering"`
}

// Segment is one brush segment.
type Segment struct {
	Rect       [4]float32 `yaml:"rect,flow"`
	Extra      [4]float32 `yaml:"extra,flow"`
	EdgeFlags  uint8      `yaml:"edge_flags"`
	BrushFlags uint8      `yaml:"brush_flags"`
}

// GPUCacheSummary records GPU cache occupancy at capture time.
type GPUCacheSummary struct {
	Slots           int    `yaml:"slots"`
	Rows            int    `yaml:"rows"`
	AllocatedBlocks int    `yaml:"allocated_blocks"`
	UsedBlocks      int    `yaml:"used_blocks"`
	Evictions       uint64 `yaml:"evictions"`
}

// Write encodes snap to w, lz4 compressed when compress is set.
func Write(w io.Writer, snap *Snapshot, compress bool) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	doc := *snap
	if doc.Version == 0 {
		doc.Version = Version
	}

	var zw *lz4.Writer
	out := w
	if compress {
		zw = lz4.NewWriter(w)
		out = zw
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("capture: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("capture: encode: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("capture: compress: %w", err)
		}
	}

	primcache.ComponentLogger("capture").Info("capture written",
		"frame", snap.Frame,
		"normal_borders", len(snap.NormalBorders),
		"image_borders", len(snap.ImageBorders),
		"compressed", compress,
	)
	return nil
}

// Read decodes a capture written by Write, compressed or not.
func Read(r io.Reader) (*Snapshot, error) {
	br := bufio.NewReader(r)
	var in io.Reader = br
	if magic, err := br.Peek(len(lz4Magic)); err == nil && bytes.Equal(magic, lz4Magic) {
		in = lz4.NewReader(br)
	}

	var snap Snapshot
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("capture: decode: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, snap.Version)
	}
	return &snap, nil
}
