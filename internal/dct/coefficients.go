package dct

import (
	"fmt"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/raster"
)

// Coefficients is a dense row-major buffer the size of a padded raster,
// partitioned into block-aligned 8×8 cells.
type Coefficients struct {
	Width  int
	Height int
	Data   []float64
}

func newCoefficients(w, h int) (*Coefficients, error) {
	n, err := raster.Samples(w, h)
	if err != nil {
		return nil, fmt.Errorf("coefficient buffer: %w", err)
	}
	return &Coefficients{Width: w, Height: h, Data: make([]float64, n)}, nil
}

// Offset returns the index of (row, col) in Data.
func (c *Coefficients) Offset(row, col int) int {
	return row*c.Width + col
}

// At returns the value at (row, col).
func (c *Coefficients) At(row, col int) float64 {
	return c.Data[row*c.Width+col]
}

// Block copies the cell whose origin is (row0, col0).
func (c *Coefficients) Block(row0, col0 int) Block {
	var b Block
	for x := 0; x < BlockSize; x++ {
		copy(b[x][:], c.Data[c.Offset(row0+x, col0):])
	}
	return b
}

func (c *Coefficients) store(row0, col0 int, b *Block) {
	for x := 0; x < BlockSize; x++ {
		copy(c.Data[c.Offset(row0+x, col0):], b[x][:])
	}
}

// loadSamples reads the 8×8 tile of r at origin (row0, col0).
func loadSamples(r *raster.Raster, row0, col0 int) Block {
	var b Block
	for u := 0; u < BlockSize; u++ {
		line := r.Pix[r.Offset(col0, row0+u):]
		for v := 0; v < BlockSize; v++ {
			b[u][v] = float64(line[v])
		}
	}
	return b
}
