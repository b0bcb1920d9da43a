package gpucache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/primcache"
)

// Errors returned by the Uploader.
var (
	// ErrNilCreator is returned when an Uploader has no texture creator.
	ErrNilCreator = errors.New("gpucache: nil texture creator")

	// ErrTextureNotUpdatable is returned when the created texture cannot
	// be updated in place.
	ErrTextureNotUpdatable = errors.New("gpucache: texture does not support UpdateData")
)

// texelsPerBlock is the number of RGBA8 texels one block occupies.
const texelsPerBlock = 4

// TextureCreator creates a GPU texture from tightly packed RGBA8 data.
// The host's render context provides it.
type TextureCreator interface {
	NewTextureFromRGBA(width, height int, data []byte) (any, error)
}

type textureDestroyer interface {
	Destroy()
}

// Uploader mirrors the cache arena into a GPU texture. Each block is
// stored as four RGBA8 texels holding the raw float32 bits.
//
// Uploader is NOT safe for concurrent use.
type Uploader struct {
	creator TextureCreator
	texture any
	staging []byte
	rows    int
	row     []Block

	fullUploads    int
	partialUploads int
}

// NewUploader creates an Uploader that creates textures with creator.
func NewUploader(creator TextureCreator) (*Uploader, error) {
	if creator == nil {
		return nil, ErrNilCreator
	}
	return &Uploader{creator: creator, row: make([]Block, RowWidth)}, nil
}

// Descriptor returns the format, size and usage the cache texture needs
// for the given number of rows.
func Descriptor(rows int) (gputypes.TextureFormat, gputypes.Extent3D, gputypes.TextureUsage) {
	return gputypes.TextureFormatRGBA8Unorm,
		gputypes.Extent3D{
			Width:              RowWidth * texelsPerBlock,
			Height:             uint32(max(rows, 1)),
			DepthOrArrayLayers: 1,
		},
		gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
}

// Upload applies a frame's updates. The texture is recreated when the
// arena grew or was cleared; otherwise only dirty rows are restaged and the
// texture is updated in place. It returns the current texture.
func (u *Uploader) Upload(c *Cache, updates Updates) (any, error) {
	rows := max(updates.Rows, 1)
	rowBytes := RowWidth * texelsPerBlock * 4

	if u.texture == nil || updates.Cleared || rows != u.rows {
		u.staging = make([]byte, rows*rowBytes)
		for v := 0; v < updates.Rows; v++ {
			u.stageRow(c, v, rowBytes)
		}
		tex, err := u.creator.NewTextureFromRGBA(RowWidth*texelsPerBlock, rows, u.staging)
		if err != nil {
			return nil, fmt.Errorf("gpucache: create cache texture: %w", err)
		}
		if destroyer, ok := u.texture.(textureDestroyer); ok {
			destroyer.Destroy()
		}
		u.texture = tex
		u.rows = rows
		u.fullUploads++
		primcache.ComponentLogger("gpucache").Debug("gpu cache texture created",
			"frame", updates.Frame, "rows", rows)
		return u.texture, nil
	}

	if len(updates.DirtyRows) == 0 {
		return u.texture, nil
	}
	for _, v := range updates.DirtyRows {
		u.stageRow(c, v, rowBytes)
	}
	updater, ok := u.texture.(gpucontext.TextureUpdater)
	if !ok {
		return nil, ErrTextureNotUpdatable
	}
	if err := updater.UpdateData(u.staging); err != nil {
		primcache.ComponentLogger("gpucache").Warn("gpu cache upload failed", "frame", updates.Frame, "error", err)
		return nil, fmt.Errorf("gpucache: update cache texture: %w", err)
	}
	u.partialUploads++
	return u.texture, nil
}

// Staging returns the bytes last sent to the texture.
func (u *Uploader) Staging() []byte {
	return u.staging
}

// Uploads returns how many full and in-place uploads have been made.
func (u *Uploader) Uploads() (full, partial int) {
	return u.fullUploads, u.partialUploads
}

// Close destroys the texture.
func (u *Uploader) Close() {
	if destroyer, ok := u.texture.(textureDestroyer); ok {
		destroyer.Destroy()
	}
	u.texture = nil
	u.staging = nil
	u.rows = 0
}

func (u *Uploader) stageRow(c *Cache, v, rowBytes int) {
	c.CopyRow(v, u.row)
	dst := u.staging[v*rowBytes : (v+1)*rowBytes]
	for i, b := range u.row {
		for j, f := range b {
			binary.LittleEndian.PutUint32(dst[(i*4+j)*4:], math.Float32bits(f))
		}
	}
}
