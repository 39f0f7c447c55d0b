// Package cursor loads pointer cursors from Xcursor themes and drives
// their rendering and animation for a Wayland compositor.
//
// At theme-load time, [LoadAll] resolves every well-known cursor kind
// into a [Template], decoding the theme's files once for every active
// (scale, size) combination and uploading the images through the
// compositor's [Uploader]. At use time, [Template.Instantiate] binds a
// template to a single logical size, producing a [Cursor] that the
// render loop draws every frame and, for animated cursors, advances
// via [Cursor.Tick].
//
// The package is designed for a single-threaded compositor core: all
// file I/O happens during loading, and nothing here is safe for
// concurrent use.
package cursor

import (
	"image"
	"math"
	"time"
)

// Cursor is a pointer image bound to one logical size, ready to be
// drawn. There are exactly two implementations: static cursors and
// animated ones.
type Cursor interface {
	// Render draws the current frame at the given position, which is
	// in surface-local coordinates relative to the hotspot. The draw
	// is skipped if the renderer's scale has no matching image or the
	// image falls entirely outside the renderer's pixel extents.
	Render(r Renderer, x, y Fixed)

	// RenderHardwareCursor draws the current frame at the origin, for
	// compositing onto a dedicated hardware cursor plane.
	RenderHardwareCursor(r Renderer)

	// ExtentsAtScale returns the hotspot-relative bounding rectangle
	// of the current frame at the given scale, or the empty rectangle
	// if the scale has no matching image.
	ExtentsAtScale(scale Scale) image.Rectangle

	// Tick advances an animated cursor's frame if its deadline has
	// passed. It is a no-op for static cursors.
	Tick()

	// NeedsTick reports whether the cursor animates at all, letting
	// the render scheduler skip idle work for static cursors.
	NeedsTick() bool

	// TimeUntilTick returns the time remaining until the next Tick
	// call would advance the frame. It is never negative and is zero
	// exactly when Tick would advance.
	TimeUntilTick() time.Duration
}

// renderImage draws img's image for the renderer's current scale, if
// there is one and it intersects the drawable area.
func renderImage(img *instanceImage, r Renderer, x, y Fixed) {
	scale := r.Scale()
	si, ok := img.scales[scale]
	if !ok {
		return
	}

	var extents image.Rectangle
	if scale != ScaleInt(1) {
		scalef := scale.Float()
		px := int(math.Round(x.Float() * scalef))
		py := int(math.Round(y.Float() * scalef))
		extents = si.extents.Add(image.Pt(px, py))
	} else {
		extents = si.extents.Add(image.Pt(x.Int(), y.Int()))
	}
	if extents.Overlaps(r.PixelExtents()) {
		r.RenderTexture(si.tex, extents.Min.X, extents.Min.Y, scale)
	}
}

func renderHardwareImage(img *instanceImage, r Renderer) {
	if si, ok := img.scales[r.Scale()]; ok {
		r.RenderTexture(si.tex, 0, 0, r.Scale())
	}
}

func extentsAtScale(img *instanceImage, scale Scale) image.Rectangle {
	si, ok := img.scales[scale]
	if !ok {
		return image.Rectangle{}
	}
	return si.extents
}

type staticCursor struct {
	image *instanceImage
}

func (c *staticCursor) Render(r Renderer, x, y Fixed) {
	renderImage(c.image, r, x, y)
}

func (c *staticCursor) RenderHardwareCursor(r Renderer) {
	renderHardwareImage(c.image, r)
}

func (c *staticCursor) ExtentsAtScale(scale Scale) image.Rectangle {
	return extentsAtScale(c.image, scale)
}

func (c *staticCursor) Tick() {}

func (c *staticCursor) NeedsTick() bool { return false }

func (c *staticCursor) TimeUntilTick() time.Duration { return 0 }

type animatedCursor struct {
	clock  Clock
	start  time.Duration
	next   time.Duration
	idx    int
	images []*instanceImage
}

func (c *animatedCursor) Render(r Renderer, x, y Fixed) {
	renderImage(c.images[c.idx], r, x, y)
}

func (c *animatedCursor) RenderHardwareCursor(r Renderer) {
	renderHardwareImage(c.images[c.idx], r)
}

func (c *animatedCursor) ExtentsAtScale(scale Scale) image.Rectangle {
	return extentsAtScale(c.images[c.idx], scale)
}

func (c *animatedCursor) Tick() {
	elapsed := c.clock.Now() - c.start
	if elapsed < c.next {
		return
	}
	c.idx = (c.idx + 1) % len(c.images)
	// The deadline accumulates instead of resetting to now+delay so
	// that frame timing stays locked to the epoch.
	c.next += c.images[c.idx].delay
}

func (c *animatedCursor) NeedsTick() bool { return true }

func (c *animatedCursor) TimeUntilTick() time.Duration {
	elapsed := c.clock.Now() - c.start
	if elapsed >= c.next {
		return 0
	}
	return c.next - elapsed
}
