package main

// memTexture is a GPU cache texture held in host memory. It stands in for
// a device texture when the driver runs without a GPU.
type memTexture struct {
	width, height int
	data          []byte
	updates       int
	destroyed     bool
}

func (t *memTexture) UpdateData(data []byte) error {
	copy(t.data, data)
	t.updates++
	return nil
}

func (t *memTexture) Destroy() { t.destroyed = true }

type memCreator struct{}

func (memCreator) NewTextureFromRGBA(width, height int, data []byte) (any, error) {
	return &memTexture{width: width, height: height, data: append([]byte(nil), data...)}, nil
}
