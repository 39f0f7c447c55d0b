package cursor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Now() time.Duration { return c.now }

type fakeTexture struct {
	pix      []byte
	w, h     int32
	released bool
}

func (t *fakeTexture) Release() { t.released = true }

type fakeUploader struct {
	failNext int
	textures []*fakeTexture
}

func (u *fakeUploader) ImportTexture(pix []byte, width, height, stride int32) (Texture, error) {
	if u.failNext > 0 {
		u.failNext--
		return nil, errors.New("no GPU for you")
	}
	tex := &fakeTexture{
		pix: bytes.Clone(pix),
		w:   width,
		h:   height,
	}
	u.textures = append(u.textures, tex)
	return tex, nil
}

type drawCall struct {
	tex  Texture
	x, y int
}

type fakeRenderer struct {
	scale   Scale
	extents image.Rectangle
	draws   []drawCall
}

func (r *fakeRenderer) Scale() Scale { return r.scale }

func (r *fakeRenderer) PixelExtents() image.Rectangle { return r.extents }

func (r *fakeRenderer) RenderTexture(tex Texture, x, y int, scale Scale) {
	r.draws = append(r.draws, drawCall{tex: tex, x: x, y: y})
}

// testImage describes one image of a synthesized cursor file.
type testImage struct {
	size       uint32
	w, h       uint32
	xhot, yhot uint32
	delay      uint32
}

// writeTheme writes a theme containing a single cursor built from the
// given images and returns the search path to find it with.
func writeTheme(t *testing.T, theme, name string, images ...testImage) []string {
	t.Helper()

	var buf bytes.Buffer
	w := func(vs ...uint32) {
		for _, v := range vs {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
		}
	}

	w(0x72756358, 16, 1, uint32(len(images)))
	pos := uint32(16 + 12*len(images))
	for _, img := range images {
		w(0xfffd0002, img.size, pos)
		pos += 9*4 + img.w*img.h*4
	}
	for _, img := range images {
		w(36, 0xfffd0002, img.size, 1, img.w, img.h, img.xhot, img.yhot, img.delay)
		buf.Write(make([]byte, img.w*img.h*4))
	}

	root := t.TempDir()
	dir := filepath.Join(root, theme, "cursors")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644))
	return []string{root}
}
