// Package xcursor locates and decodes cursors stored in the Xcursor
// file format used by cursor themes.
package xcursor

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"

	"deedles.dev/ximage/format"
)

const (
	fileMagic = 0x72756358 // ASCII "Xcur"
	imageType = 0xfffd0002

	fileHeaderLen = 4 * 4
	maxTocs       = 0x10000
)

var (
	// ErrNotXcursor indicates that a file is not in the Xcursor
	// format.
	ErrNotXcursor = errors.New("not an Xcursor file")

	// ErrOversized indicates that a file declares more than the
	// maximum allowed number of table of contents entries.
	ErrOversized = errors.New("Xcursor file contains too many images")

	// ErrEmpty indicates that a file contains no image chunks at all.
	ErrEmpty = errors.New("Xcursor file is empty")

	// ErrCorrupt indicates that a file declares an image dimension
	// outside of the representable range.
	ErrCorrupt = errors.New("Xcursor file is corrupt")

	// ErrNotFound indicates that no file exists for any candidate
	// cursor name in a theme or any of its fallbacks.
	ErrNotFound = errors.New("cursor not found")
)

// Scale is a display scale factor as a 24_8 fixed-point number,
// mirroring the representation that Wayland protocols use for
// fractional scales. Unlike a float, it is exact under comparison and
// so is usable as a map key.
type Scale int32

func ScaleInt(v int) Scale {
	return Scale(v << 8)
}

func ScaleFloat(v float64) Scale {
	return Scale(math.Round(v * 256))
}

func (s Scale) Float() float64 {
	return float64(s) / 256
}

// EffectiveSize returns the pixel size that a cursor of the given
// logical size should be rendered at under s.
func (s Scale) EffectiveSize(size uint32) uint32 {
	return uint32(math.Round(float64(size) * s.Float()))
}

func (s Scale) String() string {
	return fmt.Sprintf("%v", s.Float())
}

// Target identifies one (scale, size) combination that a cursor is
// wanted at.
type Target struct {
	Scale Scale
	Size  uint32
}

// Image is a single decoded cursor image.
type Image struct {
	// Width and Height are the image dimensions in pixels.
	Width, Height int32

	// XHot and YHot are the hotspot offset within the image.
	XHot, YHot int32

	// Delay is the time in milliseconds that this image is shown for
	// before an animated cursor advances. It is zero for static
	// cursors.
	Delay uint32

	// Pix holds the raw pixels, 4 bytes per pixel in ARGB8888 order,
	// Width*Height*4 bytes in total.
	Pix []byte
}

// Image returns a view of img's pixels as an image. The returned
// image shares memory with img.
func (img *Image) Image() *format.Image {
	return &format.Image{
		Format: format.ARGB8888,
		Rect:   image.Rect(0, 0, int(img.Width), int(img.Height)),
		Pix:    img.Pix,
	}
}

// FrameSet is the result of decoding one cursor file for a set of
// targets. Frames is ordered by animation frame index. Each frame
// maps every requested target that matched some size in the file to
// the image best fitting that target.
type FrameSet struct {
	Frames []map[Target]*Image
}

// Load finds a cursor file by walking the given theme and its
// fallbacks and decodes it for all of the given targets. Each name in
// names is an alternative for the same semantic cursor and they are
// tried in order.
func Load(names []string, theme string, targets []Target, paths []string) (*FrameSet, error) {
	file, err := Locate(names, theme, paths)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	frames, err := Decode(file, targets)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", file.Name(), err)
	}
	return frames, nil
}

// DecodeFile decodes the cursor file at path for all of the given
// targets.
func DecodeFile(path string, targets []Target) (*FrameSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	return Decode(file, targets)
}
