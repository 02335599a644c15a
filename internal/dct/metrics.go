package dct

import (
	"fmt"
	"math"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/raster"
)

// MSE returns the mean squared error between ref and got over ref's
// extent. got may be larger than ref, as a padded reconstruction is.
func MSE(ref, got *raster.Raster) (float64, error) {
	if ref.Width <= 0 || ref.Height <= 0 {
		return 0, fmt.Errorf("mse: %w", raster.ErrInvalidDimensions)
	}
	if got.Width < ref.Width || got.Height < ref.Height {
		return 0, fmt.Errorf("mse: %dx%d does not cover %dx%d: %w",
			got.Width, got.Height, ref.Width, ref.Height, raster.ErrInvalidDimensions)
	}
	var sum float64
	for row := 0; row < ref.Height; row++ {
		for col := 0; col < ref.Width; col++ {
			d := float64(ref.At(col, row)) - float64(got.At(col, row))
			sum += d * d
		}
	}
	return sum / float64(ref.Width*ref.Height), nil
}

// PSNR converts an 8-bit MSE to decibels. Identical rasters yield +Inf.
func PSNR(mse float64) float64 {
	if mse <= 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255/mse)
}
