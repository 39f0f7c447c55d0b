package cursor

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadStatic(t *testing.T, scales []Scale, img testImage) (*Template, *fakeUploader) {
	t.Helper()

	paths := writeTheme(t, "mytheme", "pointer", img)
	up := new(fakeUploader)
	tmpl, err := LoadTemplate([]string{"pointer"}, "mytheme", scales, []uint32{24}, paths, up)
	require.NoError(t, err)
	return tmpl, up
}

func TestRenderPosition(t *testing.T) {
	tmpl, up := loadStatic(t, []Scale{ScaleInt(1)}, testImage{size: 24, w: 4, h: 4, xhot: 2, yhot: 3})
	c := tmpl.Instantiate(new(fakeClock), 24)

	r := &fakeRenderer{scale: ScaleInt(1), extents: image.Rect(0, 0, 100, 100)}
	c.Render(r, FixedInt(10), FixedInt(5))

	require.Len(t, r.draws, 1)
	assert.Equal(t, Texture(up.textures[0]), r.draws[0].tex)
	assert.Equal(t, 8, r.draws[0].x)
	assert.Equal(t, 2, r.draws[0].y)
}

func TestRenderScaledPosition(t *testing.T) {
	tmpl, _ := loadStatic(t, []Scale{ScaleInt(2)}, testImage{size: 48, w: 8, h: 8, xhot: 2, yhot: 3})
	c := tmpl.Instantiate(new(fakeClock), 24)

	r := &fakeRenderer{scale: ScaleInt(2), extents: image.Rect(0, 0, 200, 200)}
	c.Render(r, FixedFloat(10.5), FixedInt(5))

	// Surface coordinates are scaled to pixels and rounded before the
	// hotspot offset applies.
	require.Len(t, r.draws, 1)
	assert.Equal(t, 19, r.draws[0].x)
	assert.Equal(t, 7, r.draws[0].y)
}

func TestRenderSkipsUnmatchedScale(t *testing.T) {
	tmpl, _ := loadStatic(t, []Scale{ScaleInt(1)}, testImage{size: 24, w: 4, h: 4})
	c := tmpl.Instantiate(new(fakeClock), 24)

	r := &fakeRenderer{scale: ScaleInt(2), extents: image.Rect(0, 0, 100, 100)}
	c.Render(r, FixedInt(10), FixedInt(5))
	assert.Empty(t, r.draws)
}

func TestRenderSkipsOffscreen(t *testing.T) {
	tmpl, _ := loadStatic(t, []Scale{ScaleInt(1)}, testImage{size: 24, w: 4, h: 4})
	c := tmpl.Instantiate(new(fakeClock), 24)

	r := &fakeRenderer{scale: ScaleInt(1), extents: image.Rect(0, 0, 100, 100)}
	c.Render(r, FixedInt(-50), FixedInt(-50))
	assert.Empty(t, r.draws)
}

func TestRenderHardwareCursor(t *testing.T) {
	tmpl, up := loadStatic(t, []Scale{ScaleInt(1)}, testImage{size: 24, w: 4, h: 4, xhot: 2, yhot: 3})
	c := tmpl.Instantiate(new(fakeClock), 24)

	r := &fakeRenderer{scale: ScaleInt(1), extents: image.Rect(0, 0, 100, 100)}
	c.RenderHardwareCursor(r)

	// The hardware cursor plane applies the hotspot itself, so the
	// image is drawn at the origin.
	require.Len(t, r.draws, 1)
	assert.Equal(t, Texture(up.textures[0]), r.draws[0].tex)
	assert.Equal(t, 0, r.draws[0].x)
	assert.Equal(t, 0, r.draws[0].y)
}

func TestRenderHardwareCursorUnmatchedScale(t *testing.T) {
	tmpl, _ := loadStatic(t, []Scale{ScaleInt(1)}, testImage{size: 24, w: 4, h: 4})
	c := tmpl.Instantiate(new(fakeClock), 24)

	r := &fakeRenderer{scale: ScaleInt(2)}
	c.RenderHardwareCursor(r)
	assert.Empty(t, r.draws)
}

func TestRenderAnimatedUsesCurrentFrame(t *testing.T) {
	paths := writeTheme(
		t,
		"mytheme",
		"wait",
		testImage{size: 24, w: 4, h: 4, delay: 10},
		testImage{size: 24, w: 4, h: 4, delay: 10},
	)
	up := new(fakeUploader)
	tmpl, err := LoadTemplate([]string{"wait"}, "mytheme", []Scale{ScaleInt(1)}, []uint32{24}, paths, up)
	require.NoError(t, err)
	require.Len(t, up.textures, 2)

	clock := new(fakeClock)
	c := tmpl.Instantiate(clock, 24)
	r := &fakeRenderer{scale: ScaleInt(1), extents: image.Rect(0, 0, 100, 100)}

	// Without a tick, rendering redraws the same frame.
	c.Render(r, FixedInt(0), FixedInt(0))
	c.Render(r, FixedInt(0), FixedInt(0))
	require.Len(t, r.draws, 2)
	assert.Equal(t, r.draws[0].tex, r.draws[1].tex)

	// A tick past the deadline is observed by the next render.
	clock.now = 10 * time.Millisecond
	c.Tick()
	c.Render(r, FixedInt(0), FixedInt(0))
	require.Len(t, r.draws, 3)
	assert.NotEqual(t, r.draws[0].tex, r.draws[2].tex)
}
