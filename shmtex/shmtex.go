// Package shmtex implements a cursor texture backend on top of POSIX
// shared memory. Each imported texture lives in its own mapped file,
// ready to be handed to a compositor backend that consumes wl_shm
// style buffers, or composited in software.
package shmtex

import (
	"fmt"
	"image"
	"os"
	"time"

	"deedles.dev/wlcursor/cursor"
	"deedles.dev/ximage/format"
	"golang.org/x/sys/unix"
)

func create() (*os.File, error) {
	path := "/dev/shm/wlcursor-" + time.Now().String()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_EXCL, 0600)
	if err != nil {
		return nil, err
	}

	return file, os.Remove(path)
}

type mmap []byte

func mapShared(file *os.File, size int, prot int) (m mmap, err error) {
	sc, err := file.SyscallConn()
	if err != nil {
		return nil, err
	}

	sc.Control(func(fd uintptr) {
		b, merr := unix.Mmap(int(fd), 0, size, prot, unix.MAP_SHARED)
		m, err = mmap(b), merr
	})

	return m, err
}

func (m mmap) unmap() error {
	return unix.Munmap(m)
}

// Uploader implements [cursor.Uploader] over shared memory.
type Uploader struct{}

// ImportTexture copies pix, ARGB8888 with the given row stride, into
// a fresh shared-memory mapping.
func (Uploader) ImportTexture(pix []byte, width, height, stride int32) (cursor.Texture, error) {
	if (width < 0) || (height < 0) || (stride < width*4) {
		return nil, fmt.Errorf("invalid texture geometry %vx%v+%v", width, height, stride)
	}
	if int64(len(pix)) < int64(stride)*int64(height) {
		return nil, fmt.Errorf("texture data too short: %v bytes for %vx%v+%v", len(pix), width, height, stride)
	}

	t := Texture{w: width, h: height}
	size := int(t.Stride() * height)

	file, err := create()
	if err != nil {
		return nil, fmt.Errorf("create SHM file: %w", err)
	}
	t.file = file
	err = file.Truncate(int64(size))
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("resize SHM file: %w", err)
	}

	m, err := mapShared(file, size, unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("mmap SHM file: %w", err)
	}
	t.mmap = m

	if stride == t.Stride() {
		copy(t.mmap, pix[:size])
	} else {
		for y := int32(0); y < height; y++ {
			copy(t.mmap[y*t.Stride():], pix[y*stride:y*stride+width*4])
		}
	}

	return &t, nil
}

// Texture is a cursor image stored in a shared-memory file.
type Texture struct {
	w, h int32
	file *os.File
	mmap mmap
}

func (t *Texture) Release() {
	if t.mmap != nil {
		t.mmap.unmap()
	}
	if t.file != nil {
		t.file.Close()
	}
}

// File returns the shared-memory file backing the texture, suitable
// for creating a wl_shm pool from.
func (t *Texture) File() *os.File {
	return t.file
}

// Bytes returns the texture's pixels. The returned slice aliases the
// shared-memory mapping.
func (t *Texture) Bytes() []byte {
	return t.mmap
}

func (t *Texture) Stride() int32 {
	return t.w * 4
}

func (t *Texture) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(t.w), int(t.h))
}

// Image returns a view of the texture as an image, sharing memory
// with the mapping.
func (t *Texture) Image() *format.Image {
	return &format.Image{
		Format: format.ARGB8888,
		Rect:   t.Bounds(),
		Pix:    t.mmap,
	}
}
