package dct

import (
	"fmt"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/raster"
)

// PaddedSize rounds w and h up to the next multiple of BlockSize.
func PaddedSize(w, h int) (int, int, error) {
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("pad %dx%d: %w", w, h, raster.ErrInvalidDimensions)
	}
	return (w + BlockSize - 1) / BlockSize * BlockSize, (h + BlockSize - 1) / BlockSize * BlockSize, nil
}

// Pad returns a new raster of padded size holding src in its top-left
// corner. The remainder is filled according to fill. src is never
// modified or aliased.
func Pad(src *raster.Raster, fill FillPolicy) (*raster.Raster, error) {
	pw, ph, err := PaddedSize(src.Width, src.Height)
	if err != nil {
		return nil, err
	}
	if pw == src.Width && ph == src.Height {
		return src.Clone(), nil
	}
	dst, err := raster.New(pw, ph)
	if err != nil {
		return nil, fmt.Errorf("pad: %w", err)
	}

	for row := 0; row < src.Height; row++ {
		line := dst.Pix[row*pw : (row+1)*pw]
		copy(line, src.Pix[row*src.Width:(row+1)*src.Width])
		if fill == FillEdge {
			last := line[src.Width-1]
			for col := src.Width; col < pw; col++ {
				line[col] = last
			}
		}
	}
	if fill == FillEdge {
		last := dst.Pix[(src.Height-1)*pw : src.Height*pw]
		for row := src.Height; row < ph; row++ {
			copy(dst.Pix[row*pw:(row+1)*pw], last)
		}
	}
	return dst, nil
}
