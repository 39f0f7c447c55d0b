package cursor

import (
	"fmt"
	"image"
	"time"

	"deedles.dev/wlcursor/internal/debug"
	"deedles.dev/wlcursor/xcursor"
)

// scaleSize keys a cursor image by the (scale, size) combination that
// it was loaded for.
type scaleSize struct {
	scale Scale
	size  uint32
}

// scaledImage is a single uploaded cursor image together with its
// hotspot-relative extents.
type scaledImage struct {
	extents image.Rectangle
	tex     Texture
}

func newScaledImage(up Uploader, pix []byte, width, height, xhot, yhot int32) (*scaledImage, error) {
	tex, err := up.ImportTexture(pix, width, height, width*4)
	if err != nil {
		return nil, err
	}
	return &scaledImage{
		extents: image.Rect(int(-xhot), int(-yhot), int(width-xhot), int(height-yhot)),
		tex:     tex,
	}, nil
}

// templateImage is one animation frame of a template, holding the
// uploaded image for every loaded (scale, size) combination.
type templateImage struct {
	delay time.Duration
	sizes map[scaleSize]*scaledImage
}

func newTemplateImage(delayMS uint32) *templateImage {
	return &templateImage{
		// A delay of zero would stall the animation, so it is clamped
		// to the smallest positive delay.
		delay: time.Duration(max(delayMS, 1)) * time.Millisecond,
		sizes: make(map[scaleSize]*scaledImage),
	}
}

// forSize projects the frame down to the images matching one logical
// size, keyed by scale.
func (img *templateImage) forSize(size uint32) *instanceImage {
	scales := make(map[Scale]*scaledImage)
	for k, v := range img.sizes {
		if k.size == size {
			scales[k.scale] = v
		}
	}
	return &instanceImage{
		delay:  img.delay,
		scales: scales,
	}
}

// instanceImage is a frame as seen by an instantiated cursor: only
// the images for the instance's size, keyed by scale.
type instanceImage struct {
	delay  time.Duration
	scales map[Scale]*scaledImage
}

// Template holds the uploaded images for one cursor kind under the
// active theme configuration. It exists for the lifetime of that
// configuration and instantiates render-facing cursors on demand.
type Template struct {
	// Exactly one of static and animated is set.
	static   *templateImage
	animated []*templateImage

	// XImages retains the decoded frames that the template was built
	// from, for callers that need raw pixel access. It is empty for
	// templates built from the fallback image.
	XImages []map[xcursor.Target]*xcursor.Image
}

// LoadTemplate loads the cursor named by names from the given theme
// for the full cross product of scales and sizes, uploading every
// image through up.
//
// A cursor that cannot be located, decoded, or uploaded is replaced
// by a 1x1 transparent image for every (scale, size) combination
// after logging a warning, so the compositor is never left without a
// usable pointer. Only a failure to upload that fallback image is
// reported as an error.
func LoadTemplate(names []string, theme string, scales []Scale, sizes []uint32, paths []string, up Uploader) (*Template, error) {
	targets := make([]xcursor.Target, 0, len(scales)*len(sizes))
	for _, scale := range scales {
		for _, size := range sizes {
			targets = append(targets, xcursor.Target{Scale: scale, Size: size})
		}
	}

	t, err := load(names, theme, targets, paths, up)
	if err != nil {
		debug.Warnf("could not load cursor %v: %v", names, err)
		return fallbackTemplate(targets, up)
	}
	return t, nil
}

func load(names []string, theme string, targets []xcursor.Target, paths []string, up Uploader) (*Template, error) {
	fs, err := xcursor.Load(names, theme, targets, paths)
	if err != nil {
		return nil, err
	}

	frames := make([]*templateImage, 0, len(fs.Frames))
	for _, frame := range fs.Frames {
		var img *templateImage
		for target, c := range frame {
			if img == nil {
				img = newTemplateImage(c.Delay)
			}
			si, err := newScaledImage(up, c.Pix, c.Width, c.Height, c.XHot, c.YHot)
			if err != nil {
				img.release()
				releaseFrames(frames)
				return nil, fmt.Errorf("import texture: %w", err)
			}
			img.sizes[scaleSize{target.Scale, target.Size}] = si
		}
		frames = append(frames, img)
	}

	t := Template{XImages: fs.Frames}
	if len(frames) == 1 {
		t.static = frames[0]
	} else {
		t.animated = frames
	}
	return &t, nil
}

func fallbackTemplate(targets []xcursor.Target, up Uploader) (*Template, error) {
	transparent := make([]byte, 4)
	img := newTemplateImage(0)
	for _, target := range targets {
		si, err := newScaledImage(up, transparent, 1, 1, 0, 0)
		if err != nil {
			img.release()
			return nil, fmt.Errorf("import fallback texture: %w", err)
		}
		img.sizes[scaleSize{target.Scale, target.Size}] = si
	}
	return &Template{static: img}, nil
}

func releaseFrames(frames []*templateImage) {
	for _, img := range frames {
		img.release()
	}
}

func (img *templateImage) release() {
	for _, si := range img.sizes {
		si.tex.Release()
	}
}

// Instantiate builds a cursor bound to one logical size. Animated
// cursors start at frame zero with clock's current time as their
// epoch.
func (t *Template) Instantiate(clock Clock, size uint32) Cursor {
	if t.static != nil {
		return &staticCursor{image: t.static.forSize(size)}
	}

	images := make([]*instanceImage, 0, len(t.animated))
	for _, img := range t.animated {
		images = append(images, img.forSize(size))
	}
	return &animatedCursor{
		clock:  clock,
		start:  clock.Now(),
		next:   images[0].delay,
		images: images,
	}
}

// Animated reports whether the template holds more than one frame.
func (t *Template) Animated() bool {
	return t.static == nil
}

// Release frees every texture the template uploaded. Cursors
// instantiated from the template must no longer be rendered.
func (t *Template) Release() {
	if t.static != nil {
		t.static.release()
		return
	}
	releaseFrames(t.animated)
}
