// Package raster holds decoded pixel data in OpenCV memory with explicit,
// one-shot release semantics.
package raster

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// ErrReleased is returned by every accessor once the image has been released.
var ErrReleased = errors.New("raster image already released")

// Image owns a gocv.Mat in BGR or BGRA channel order. Release frees it exactly once.
type Image struct {
	mat      gocv.Mat
	released int32
	mu       sync.RWMutex
	id       uint64
}

var nextImageID uint64

// FromImage copies img into a new owned raster. Images with an alpha channel keep it.
func FromImage(img image.Image) (*Image, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	var (
		mat gocv.Mat
		err error
	)
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		mat, err = gocv.ImageToMatRGBA(img)
	default:
		mat, err = gocv.ImageToMatRGB(img)
	}
	if err != nil {
		return nil, fmt.Errorf("image to Mat conversion failed: %w", err)
	}

	return FromMat(mat)
}

// FromMat takes ownership of mat.
func FromMat(mat gocv.Mat) (*Image, error) {
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("source Mat is empty")
	}

	ri := &Image{
		mat: mat,
		id:  atomic.AddUint64(&nextImageID, 1),
	}

	runtime.SetFinalizer(ri, (*Image).finalize)

	return ri, nil
}

// Filled creates a width x height BGR image of a single colour.
func Filled(width, height int, b, g, r uint8) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", width, height)
	}

	scalar := gocv.NewScalar(float64(b), float64(g), float64(r), 0)
	return FromMat(gocv.NewMatWithSizeFromScalar(scalar, height, width, gocv.MatTypeCV8UC3))
}

func (ri *Image) ID() uint64 {
	return ri.id
}

// Released reports whether Release has been called.
func (ri *Image) Released() bool {
	return atomic.LoadInt32(&ri.released) == 1
}

func (ri *Image) Width() int {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	if ri.Released() {
		return 0
	}
	return ri.mat.Cols()
}

func (ri *Image) Height() int {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	if ri.Released() {
		return 0
	}
	return ri.mat.Rows()
}

func (ri *Image) Channels() int {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	if ri.Released() {
		return 0
	}
	return ri.mat.Channels()
}

// With runs fn against the underlying Mat while holding a read lock, so a
// concurrent Release cannot free it mid-use.
func (ri *Image) With(fn func(gocv.Mat) error) error {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	if ri.Released() {
		return ErrReleased
	}
	return fn(ri.mat)
}

// ToImage converts back to a Go image.
func (ri *Image) ToImage() (image.Image, error) {
	var out image.Image
	err := ri.With(func(m gocv.Mat) error {
		img, err := m.ToImage()
		if err != nil {
			return fmt.Errorf("Mat to image conversion failed: %w", err)
		}
		out = img
		return nil
	})
	return out, err
}

// Release frees the pixel memory. Calling it again is a no-op and reports false.
func (ri *Image) Release() bool {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	if !atomic.CompareAndSwapInt32(&ri.released, 0, 1) {
		return false
	}

	if !ri.mat.Empty() {
		ri.mat.Close()
	}
	runtime.SetFinalizer(ri, nil)
	return true
}

// finalize is called by the garbage collector if Release was never called.
func (ri *Image) finalize() {
	if atomic.LoadInt32(&ri.released) == 0 {
		ri.Release()
	}
}
