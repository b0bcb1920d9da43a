package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/primcache/border"
	"github.com/gogpu/primcache/color"
	"github.com/gogpu/primcache/frame"
	"github.com/gogpu/primcache/geom"
	"github.com/gogpu/primcache/prim"
	"github.com/gogpu/primcache/resource"
)

// sceneFile is the YAML description of a scene of borders.
type sceneFile struct {
	Images  []imageSpec  `yaml:"images"`
	Borders []borderSpec `yaml:"borders"`
}

type imageSpec struct {
	Namespace uint32 `yaml:"namespace"`
	ID        uint32 `yaml:"id"`
	// File is decoded when set, relative to the scene file. Otherwise
	// Width, Height and Opaque describe the image.
	File   string `yaml:"file"`
	Width  int32  `yaml:"width"`
	Height int32  `yaml:"height"`
	Opaque bool   `yaml:"opaque"`
}

type borderSpec struct {
	Rect            [4]float32  `yaml:"rect,flow"`
	Clip            *[4]float32 `yaml:"clip,flow"`
	BackfaceVisible *bool       `yaml:"backface_visible"`
	// Widths are top, right, bottom, left.
	Widths [4]float32       `yaml:"widths,flow"`
	Style  string           `yaml:"style"`
	Styles []string         `yaml:"styles,flow"`
	Color  string           `yaml:"color"`
	Colors []string         `yaml:"colors,flow"`
	Radius float32          `yaml:"radius"`
	NoAA   bool             `yaml:"no_aa"`
	Shadow *shadowSpec      `yaml:"shadow"`
	Image  *imageBorderSpec `yaml:"image"`
	// Repeat adds the border this many times at the same place.
	Repeat int `yaml:"repeat"`
}

type shadowSpec struct {
	Offset [2]float32 `yaml:"offset,flow"`
	Color  string     `yaml:"color"`
	Blur   float32    `yaml:"blur"`
}

type imageBorderSpec struct {
	Namespace uint32     `yaml:"namespace"`
	ID        uint32     `yaml:"id"`
	Rendering string     `yaml:"rendering"`
	Size      [2]int32   `yaml:"size,flow"`
	Slice     [4]int32   `yaml:"slice,flow"`
	Fill      bool       `yaml:"fill"`
	Repeat    [2]string  `yaml:"repeat,flow"`
	Outset    [4]float32 `yaml:"outset,flow"`
	Widths    [4]float32 `yaml:"widths,flow"`
}

// errNoBorders is returned for a scene file without borders.
var errNoBorders = errors.New("scene: no borders")

// loadScene reads and decodes a scene file.
func loadScene(path string) (*sceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: reading %s: %w", path, err)
	}
	return parseScene(data)
}

func parseScene(data []byte) (*sceneFile, error) {
	var sf sceneFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNoBorders
		}
		return nil, fmt.Errorf("scene: parsing: %w", err)
	}
	if len(sf.Borders) == 0 {
		return nil, errNoBorders
	}
	return &sf, nil
}

// registerImages adds the scene's images to the store's resource cache.
// File paths are resolved against dir.
func (sf *sceneFile) registerImages(store *frame.Store, dir string) error {
	res := store.Resources()
	for _, img := range sf.Images {
		key := resource.ImageKey{Namespace: img.Namespace, ID: img.ID}
		if img.File == "" {
			res.AddImage(key, resource.ImageDescriptor{
				Width:    img.Width,
				Height:   img.Height,
				IsOpaque: img.Opaque,
			})
			continue
		}
		if err := addImageFile(res, key, filepath.Join(dir, img.File)); err != nil {
			return err
		}
	}
	return nil
}

func addImageFile(res *resource.Cache, key resource.ImageKey, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("scene: image %s: %w", key, err)
	}
	defer f.Close()
	if _, err := res.AddImageData(key, f); err != nil {
		return fmt.Errorf("scene: image %s: %w", key, err)
	}
	return nil
}

// populate adds every border of the scene file to b.
func (sf *sceneFile) populate(b *frame.SceneBuilder) error {
	for i, bs := range sf.Borders {
		info := bs.placement()
		clip := info.ClipRect
		content, err := bs.content()
		if err != nil {
			return fmt.Errorf("scene: border %d: %w", i, err)
		}
		var shadow *prim.Shadow
		if bs.Shadow != nil {
			c, err := parseColor(bs.Shadow.Color)
			if err != nil {
				return fmt.Errorf("scene: border %d shadow: %w", i, err)
			}
			shadow = &prim.Shadow{
				Offset:     geom.Point{X: bs.Shadow.Offset[0], Y: bs.Shadow.Offset[1]},
				Color:      c,
				BlurRadius: bs.Shadow.Blur,
			}
		}
		for range max(bs.Repeat, 1) {
			if shadow != nil {
				b.AddBorderWithShadow(info, clip, content, *shadow)
			} else {
				b.AddBorder(info, clip, content)
			}
		}
	}
	return nil
}

func (bs *borderSpec) placement() geom.PrimitiveInfo {
	rect := rectOf(bs.Rect)
	clip := rect
	if bs.Clip != nil {
		clip = rectOf(*bs.Clip)
	}
	backface := true
	if bs.BackfaceVisible != nil {
		backface = *bs.BackfaceVisible
	}
	return geom.PrimitiveInfo{Rect: rect, ClipRect: clip, BackfaceVisible: backface}
}

func (bs *borderSpec) content() (prim.BorderContent, error) {
	if bs.Image != nil {
		return bs.Image.content()
	}

	styles, err := fourSides(bs.Styles, bs.Style, "solid")
	if err != nil {
		return nil, fmt.Errorf("styles: %w", err)
	}
	colors, err := fourSides(bs.Colors, bs.Color, "#000000")
	if err != nil {
		return nil, fmt.Errorf("colors: %w", err)
	}
	var sides [4]border.Side
	for i := range sides {
		st, err := border.ParseStyle(styles[i])
		if err != nil {
			return nil, err
		}
		c, err := parseColor(colors[i])
		if err != nil {
			return nil, err
		}
		sides[i] = border.Side{Color: c, Style: st}
	}
	nb := border.NormalBorder{
		Top:    sides[0],
		Right:  sides[1],
		Bottom: sides[2],
		Left:   sides[3],
		Radius: border.UniformRadius(bs.Radius),
		DoAA:   !bs.NoAA,
	}
	return prim.NewNormalBorderPrim(nb, sideOffsetsOf(bs.Widths)), nil
}

func (is *imageBorderSpec) content() (prim.BorderContent, error) {
	rendering := resource.RenderingAuto
	if is.Rendering != "" {
		r, err := resource.ParseImageRendering(is.Rendering)
		if err != nil {
			return nil, err
		}
		rendering = r
	}
	var modes [2]border.RepeatMode
	for i, name := range is.Repeat {
		if name == "" {
			continue
		}
		m, err := border.ParseRepeatMode(name)
		if err != nil {
			return nil, err
		}
		modes[i] = m
	}
	return prim.ImageBorder{
		Request: resource.ImageRequest{
			Key:       resource.ImageKey{Namespace: is.Namespace, ID: is.ID},
			Rendering: rendering,
		},
		NinePatch: border.NinePatchDescriptor{
			Width:  is.Size[0],
			Height: is.Size[1],
			Slice: geom.SideOffsetsI{
				Top:    is.Slice[0],
				Right:  is.Slice[1],
				Bottom: is.Slice[2],
				Left:   is.Slice[3],
			},
			Fill:             is.Fill,
			RepeatHorizontal: modes[0],
			RepeatVertical:   modes[1],
			Outset:           sideOffsetsOf(is.Outset).Au(),
			Widths:           sideOffsetsOf(is.Widths).Au(),
		},
	}, nil
}

// fourSides expands a per-side list, or a single value, to four entries.
func fourSides(list []string, single, fallback string) ([4]string, error) {
	var out [4]string
	switch len(list) {
	case 0:
		if single == "" {
			single = fallback
		}
		out = [4]string{single, single, single, single}
	case 4:
		copy(out[:], list)
	default:
		return out, fmt.Errorf("need 4 entries, got %d", len(list))
	}
	return out, nil
}

func parseColor(s string) (color.ColorF, error) {
	if s == "" {
		return color.RGBA(0, 0, 0, 1), nil
	}
	return color.Hex(s)
}

func rectOf(v [4]float32) geom.Rect {
	return geom.NewRect(v[0], v[1], v[2], v[3])
}

func sideOffsetsOf(v [4]float32) geom.SideOffsets {
	return geom.SideOffsets{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}
}
