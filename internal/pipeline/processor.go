package pipeline

import (
	"fmt"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/dct"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/hasher"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/manifest"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/raster"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key   string
	image manifest.Image
	err   error
}

// processImage handles a single source image: hash, decode, convert to
// luma, reconstruct, measure, and show both rasters through the sink.
func processImage(src Source, cfg Config, sink *FileSink) processResult {
	result := processResult{key: src.Key}

	f, err := os.Open(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("open %s: %w", src.RelPath, err)
		return result
	}
	defer f.Close()

	fileHash, err := hasher.ContentHashReader(f, 16)
	if err != nil {
		result.err = fmt.Errorf("hash %s: %w", src.RelPath, err)
		return result
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		result.err = fmt.Errorf("rewind %s: %w", src.RelPath, err)
		return result
	}

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	// Optional pre-scale; the transform cost grows with the pixel count.
	if b := img.Bounds(); cfg.MaxDim > 0 && (b.Dx() > cfg.MaxDim || b.Dy() > cfg.MaxDim) {
		img = imaging.Fit(img, cfg.MaxDim, cfg.MaxDim, imaging.Lanczos)
	}

	luma, err := raster.FromImage(img)
	if err != nil {
		result.err = fmt.Errorf("convert %s: %w", src.RelPath, err)
		return result
	}

	res, err := dct.Reconstruct(luma, cfg.Profile.Options(cfg.BlockWorkers))
	if err != nil {
		result.err = fmt.Errorf("reconstruct %s: %w", src.RelPath, err)
		return result
	}
	if err := res.Stats.Err(); err != nil && cfg.Verbose {
		logf("warn: %s: %v", src.Key, err)
	}

	mse, err := dct.MSE(luma, res.Output)
	if err != nil {
		result.err = fmt.Errorf("measure %s: %w", src.RelPath, err)
		return result
	}

	if cfg.Crop {
		sink.CropWidth, sink.CropHeight = luma.Width, luma.Height
	}
	for _, shown := range []struct {
		r     *raster.Raster
		label string
	}{
		{res.Source, "source"},
		{res.Output, "reconstructed"},
	} {
		if err := sink.Show(shown.r, shown.label); err != nil {
			result.err = err
			return result
		}
	}

	result.image = manifest.Image{
		Original: manifest.OriginalInfo{
			Width:  luma.Width,
			Height: luma.Height,
			Format: src.Format,
			Size:   src.Size,
			Hash:   fileHash,
		},
		Padded:      manifest.Dimensions{Width: res.Output.Width, Height: res.Output.Height},
		Blocks:      res.Stats.Blocks,
		Clamped:     res.Stats.Clamped,
		MSE:         mse,
		Fingerprint: hasher.RasterHash(res.Output.Width, res.Output.Height, res.Output.Pix),
		Outputs:     sink.Outputs,
	}
	if mse > 0 {
		psnr := dct.PSNR(mse)
		result.image.PSNR = &psnr
	}
	return result
}
