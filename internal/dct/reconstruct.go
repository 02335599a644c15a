package dct

import (
	"fmt"
	"math"
	"sync"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/raster"
)

// Stats describes one reconstruction.
type Stats struct {
	Blocks  int // 8×8 blocks transformed
	Clamped int // samples saturated to [0,255]
	Workers int // goroutines used for the block pass
}

// Err reports clamped samples as ErrSampleOutOfRange. Clamping is not
// fatal; callers decide whether to surface it.
func (s Stats) Err() error {
	if s.Clamped == 0 {
		return nil
	}
	return fmt.Errorf("%d samples clamped: %w", s.Clamped, raster.ErrSampleOutOfRange)
}

// Result holds both rasters produced by Reconstruct. Both have padded
// dimensions; crop them to recover the source aspect.
type Result struct {
	Source *raster.Raster // padded copy of the input
	Output *raster.Raster // reconstruction
	Stats  Stats
}

// Reconstruct pads src, runs forward transform and quantization followed
// by dequantization and inverse transform over every block, and
// reassembles the result. Dimension, table and allocation errors are
// returned before any block is transformed.
func Reconstruct(src *raster.Raster, opts Options) (*Result, error) {
	padded, coeffs, err := prepare(src, &opts)
	if err != nil {
		return nil, err
	}
	out, err := raster.New(padded.Width, padded.Height)
	if err != nil {
		return nil, fmt.Errorf("output raster: %w", err)
	}

	blockRows := padded.Height / BlockSize
	workers := opts.workers(blockRows)
	q := &opts.Table

	forEachBlockRow(padded.Height, workers, func(row0 int) {
		for col0 := 0; col0 < padded.Width; col0 += BlockSize {
			s := loadSamples(padded, row0, col0)
			c := ForwardBlock(&s, q)
			if opts.RoundCoefficients {
				roundBlock(&c)
			}
			coeffs.store(row0, col0, &c)

			c = coeffs.Block(row0, col0)
			rec := InverseBlock(&c, q, opts.Order, opts.Dequant)
			coeffs.store(row0, col0, &rec)
		}
	})

	clamped := reassemble(coeffs, out, opts.Rounding, workers)

	return &Result{
		Source: padded,
		Output: out,
		Stats: Stats{
			Blocks:  blockRows * (padded.Width / BlockSize),
			Clamped: clamped,
			Workers: workers,
		},
	}, nil
}

// Analyze runs only the forward transform and quantization, returning the
// coefficient buffer for inspection.
func Analyze(src *raster.Raster, opts Options) (*Coefficients, error) {
	padded, coeffs, err := prepare(src, &opts)
	if err != nil {
		return nil, err
	}
	q := &opts.Table
	forEachBlockRow(padded.Height, opts.workers(padded.Height/BlockSize), func(row0 int) {
		for col0 := 0; col0 < padded.Width; col0 += BlockSize {
			s := loadSamples(padded, row0, col0)
			c := ForwardBlock(&s, q)
			if opts.RoundCoefficients {
				roundBlock(&c)
			}
			coeffs.store(row0, col0, &c)
		}
	})
	return coeffs, nil
}

func prepare(src *raster.Raster, opts *Options) (*raster.Raster, *Coefficients, error) {
	if src == nil {
		return nil, nil, fmt.Errorf("nil raster: %w", raster.ErrInvalidDimensions)
	}
	if err := opts.Table.Validate(); err != nil {
		return nil, nil, err
	}
	padded, err := Pad(src, opts.Fill)
	if err != nil {
		return nil, nil, err
	}
	coeffs, err := newCoefficients(padded.Width, padded.Height)
	if err != nil {
		return nil, nil, err
	}
	return padded, coeffs, nil
}

// forEachBlockRow hands every block row origin to one of workers
// goroutines and waits for all of them.
func forEachBlockRow(height, workers int, fn func(row0 int)) {
	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row0 := range rows {
				fn(row0)
			}
		}()
	}
	for row0 := 0; row0 < height; row0 += BlockSize {
		rows <- row0
	}
	close(rows)
	wg.Wait()
}

// reassemble writes every coefficient buffer entry into out at the same
// coordinates and returns how many samples were clamped.
func reassemble(c *Coefficients, out *raster.Raster, mode Rounding, workers int) int {
	counts := make([]int, c.Height/BlockSize)
	forEachBlockRow(c.Height, workers, func(row0 int) {
		n := 0
		for row := row0; row < row0+BlockSize; row++ {
			src := c.Data[row*c.Width : (row+1)*c.Width]
			dst := out.Pix[row*out.Width : (row+1)*out.Width]
			for col, v := range src {
				s, clamped := toSample(v, mode)
				dst[col] = s
				if clamped {
					n++
				}
			}
		}
		counts[row0/BlockSize] = n
	})

	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// toSample converts v with the given rounding and saturates it to the
// sample range. The second result reports saturation; NaN maps to 0.
func toSample(v float64, mode Rounding) (uint8, bool) {
	if math.IsNaN(v) {
		return 0, true
	}
	if mode == RoundTruncate {
		v = math.Trunc(v)
	} else {
		v = math.Round(v)
	}
	switch {
	case v < 0:
		return 0, true
	case v > math.MaxUint8:
		return math.MaxUint8, true
	}
	return uint8(v), false
}
