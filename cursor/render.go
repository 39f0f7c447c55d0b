package cursor

import (
	"image"
	"time"

	"deedles.dev/wlcursor/xcursor"
)

// Scale is a display scale factor. See [xcursor.Scale].
type Scale = xcursor.Scale

func ScaleInt(v int) Scale {
	return xcursor.ScaleInt(v)
}

func ScaleFloat(v float64) Scale {
	return xcursor.ScaleFloat(v)
}

// Texture is an opaque drawable handle produced by an Uploader. A
// texture's contents never change after it is created, so a single
// texture may be drawn by any number of cursors.
type Texture interface {
	// Release frees the resources backing the texture.
	Release()
}

// Uploader turns raw pixel data into drawable textures. It is
// implemented by the compositor's rendering backend, for example
// [deedles.dev/wlcursor/shmtex.Uploader].
type Uploader interface {
	// ImportTexture creates a texture from pix, which holds ARGB8888
	// pixels with the given row stride in bytes.
	ImportTexture(pix []byte, width, height, stride int32) (Texture, error)
}

// Renderer is the drawing context that cursors are rendered into
// during a render pass.
type Renderer interface {
	// Scale is the display scale that the renderer is currently
	// drawing at.
	Scale() Scale

	// PixelExtents is the drawable pixel area. Draws outside of it
	// are skipped.
	PixelExtents() image.Rectangle

	// RenderTexture draws tex with its top-left corner at the given
	// pixel position.
	RenderTexture(tex Texture, x, y int, scale Scale)
}

// Clock reports monotonic time, measured since some fixed point such
// as compositor startup. Animated cursors schedule their frames
// against it.
type Clock interface {
	Now() time.Duration
}
