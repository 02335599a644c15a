// Package raster holds single-channel 8-bit sample grids.
//
// A Raster owns its Pix buffer. Samples are stored row-major with a stride
// equal to Width, so the sample at (col, row) lives at Pix[row*Width+col].
package raster

import (
	"errors"
	"fmt"
)

// MaxPixels bounds a single allocation (256 Mi samples).
const MaxPixels = 1 << 28

var (
	// ErrInvalidDimensions is returned for a non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrAllocationFailure is returned when a raster of the requested size
	// cannot be allocated.
	ErrAllocationFailure = errors.New("allocation failure")
	// ErrSampleOutOfRange reports reconstructed values that did not fit
	// into a sample and were clamped.
	ErrSampleOutOfRange = errors.New("sample out of range")
)

// Raster is a grayscale image with one uint8 sample per pixel.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zero-filled raster of w×h samples.
func New(w, h int) (*Raster, error) {
	n, err := Samples(w, h)
	if err != nil {
		return nil, err
	}
	return &Raster{Width: w, Height: h, Pix: make([]uint8, n)}, nil
}

// Samples returns w*h after checking that a buffer of that size may be
// allocated.
func Samples(w, h int) (int, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("%dx%d: %w", w, h, ErrInvalidDimensions)
	}
	if w > MaxPixels/h {
		return 0, fmt.Errorf("%dx%d exceeds %d samples: %w", w, h, MaxPixels, ErrAllocationFailure)
	}
	return w * h, nil
}

// Offset returns the index of (col, row) in Pix.
func (r *Raster) Offset(col, row int) int {
	return row*r.Width + col
}

// At returns the sample at (col, row).
func (r *Raster) At(col, row int) uint8 {
	return r.Pix[row*r.Width+col]
}

// Set stores v at (col, row).
func (r *Raster) Set(col, row int, v uint8) {
	r.Pix[row*r.Width+col] = v
}

// Release drops the sample buffer. The raster must not be used afterwards.
func (r *Raster) Release() {
	r.Pix = nil
	r.Width, r.Height = 0, 0
}

// Clone returns an independent copy.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// Crop returns a copy of the top-left w×h region.
func (r *Raster) Crop(w, h int) (*Raster, error) {
	if w <= 0 || h <= 0 || w > r.Width || h > r.Height {
		return nil, fmt.Errorf("crop %dx%d of %dx%d: %w", w, h, r.Width, r.Height, ErrInvalidDimensions)
	}
	if w == r.Width && h == r.Height {
		return r.Clone(), nil
	}
	out, err := New(w, h)
	if err != nil {
		return nil, err
	}
	for row := 0; row < h; row++ {
		copy(out.Pix[row*w:(row+1)*w], r.Pix[row*r.Width:])
	}
	return out, nil
}

// Equal reports whether both rasters have the same shape and samples.
func (r *Raster) Equal(o *Raster) bool {
	if r.Width != o.Width || r.Height != o.Height || len(r.Pix) != len(o.Pix) {
		return false
	}
	for i := range r.Pix {
		if r.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}
