package xcursor

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"deedles.dev/wlcursor/internal/debug"
	"deedles.dev/wlcursor/internal/set"
	"golang.org/x/exp/maps"
)

// Decode parses the Xcursor file read from r, picking for every
// target the embedded size closest to the target's effective size.
// The frames of the returned set are in file order.
//
// If the file is animated but the matched sizes disagree on the
// number of frames, the result is collapsed to a single frame for
// every target rather than failing: a cursor usable at one size beats
// no cursor at all.
func Decode(r io.ReadSeeker, targets []Target) (*FrameSet, error) {
	d := decoder{r: r}
	return d.Decode(targets)
}

type decoder struct {
	r   io.ReadSeeker
	err error
}

// target tracks the best-fit state for a single requested target
// during the table of contents scan.
type target struct {
	Target
	effectiveSize uint32
	bestFit       int64
	bestFitSize   uint32
	positions     []uint32
}

func (d *decoder) Decode(targets []Target) (fs *FrameSet, err error) {
	if d.err != nil {
		return nil, d.err
	}
	defer d.catch(&err)

	ntoc := d.header()
	ts := make([]*target, 0, len(targets))
	for _, t := range targets {
		ts = append(ts, &target{
			Target:        t,
			effectiveSize: t.Scale.EffectiveSize(t.Size),
			bestFit:       math.MaxInt64,
		})
	}

	for i := 0; i < ntoc; i++ {
		chunkType := d.uint32()
		size := d.uint32()
		position := d.uint32()
		if chunkType != imageType {
			continue
		}

		for _, t := range ts {
			fit := int64(size) - int64(t.effectiveSize)
			if fit < 0 {
				fit = -fit
			}
			// Only a strictly better fit displaces the current best,
			// so ties keep the first size encountered.
			if fit < t.bestFit {
				t.bestFit = fit
				t.bestFitSize = size
				t.positions = t.positions[:0]
			}
			if size == t.bestFitSize {
				t.positions = append(t.positions, position)
			}
		}
	}

	positions := make(set.Set[uint32])
	for _, t := range ts {
		for _, p := range t.positions {
			positions.Add(p)
		}
	}
	if positions.Len() == 0 {
		d.throw(ErrEmpty)
	}

	// A single image chunk commonly serves several targets, so each
	// position is read exactly once.
	images := make(map[uint32]*Image, positions.Len())
	for _, position := range maps.Keys(positions) {
		images[position] = d.image(position)
	}

	num := len(ts[0].positions)
	if num > 1 {
		for _, t := range ts {
			if len(t.positions) != num {
				debug.Warnf("cursor file contains an animated cursor but not all sizes have the same number of images")
				num = 1
				break
			}
		}
	}

	frames := make([]map[Target]*Image, 0, num)
	for i := 0; i < num; i++ {
		frame := make(map[Target]*Image, len(ts))
		for _, t := range ts {
			frame[t.Target] = images[t.positions[i]]
		}
		frames = append(frames, frame)
	}

	return &FrameSet{Frames: frames}, nil
}

// header validates the file header and leaves the decoder positioned
// at the first table of contents entry. It returns the number of
// entries.
func (d *decoder) header() int {
	magic := d.uint32()
	hsize := d.uint32()
	if (magic != fileMagic) || (hsize < fileHeaderLen) {
		d.throw(ErrNotXcursor)
	}
	d.uint32() // Version.
	ntoc := d.uint32()
	if ntoc > maxTocs {
		d.throw(ErrOversized)
	}
	d.seekTo(int64(hsize))

	return int(ntoc)
}

// image reads the image chunk at the given absolute file offset.
func (d *decoder) image(position uint32) *Image {
	d.seekTo(int64(position))

	var chunk [9]uint32
	d.throw(binary.Read(d.r, binary.LittleEndian, &chunk))
	// chunk[0:4] are the chunk's header size, type, subtype, and
	// version, none of which affect decoding.
	width := d.int32(chunk[4])
	height := d.int32(chunk[5])
	xhot := d.int32(chunk[6])
	yhot := d.int32(chunk[7])
	delay := chunk[8]

	// The format's offsets are 32 bits, so an image whose pixel data
	// could not even be addressed within the file is nonsense.
	npixels := int64(width) * int64(height)
	if npixels > math.MaxUint32/4 {
		d.throw(fmt.Errorf("%w: %vx%v image does not fit in the file", ErrCorrupt, width, height))
	}

	pix := make([]byte, npixels*4)
	_, err := io.ReadFull(d.r, pix)
	d.throw(err)

	return &Image{
		Width:  width,
		Height: height,
		XHot:   xhot,
		YHot:   yhot,
		Delay:  delay,
		Pix:    pix,
	}
}

func (d *decoder) uint32() (v uint32) {
	d.throw(binary.Read(d.r, binary.LittleEndian, &v))
	return v
}

// int32 converts a field read from the file to a non-negative int32,
// failing with ErrCorrupt if it does not fit.
func (d *decoder) int32(v uint32) int32 {
	if v > math.MaxInt32 {
		d.throw(fmt.Errorf("%w: %#x out of range", ErrCorrupt, v))
	}
	return int32(v)
}

func (d *decoder) seekTo(n int64) {
	_, err := d.r.Seek(n, io.SeekStart)
	d.throw(err)
}

type decoderError struct {
	err error
}

func (d *decoder) throw(err error) {
	if err != nil {
		panic(decoderError{err: err})
	}
}

func (d *decoder) catch(err *error) {
	switch r := recover().(type) {
	case decoderError:
		*err = r.err
		d.err = r.err
	case nil:
		*err = d.err
	default:
		panic(r)
	}
}
