package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/encoder"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/hasher"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/manifest"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/raster"
)

// Sink presents a raster under a label.
type Sink interface {
	Show(r *raster.Raster, label string) error
}

// FileSink writes every shown raster to OutputDir in each of Formats.
// Files are named <key>.<label>.<hash>.<ext> and recorded in Outputs.
type FileSink struct {
	Registry  *encoder.Registry
	OutputDir string
	Key       string
	Formats   []string
	Quality   int
	// CropWidth and CropHeight, when positive, trim rasters back to the
	// source extent before encoding.
	CropWidth  int
	CropHeight int

	Outputs []manifest.Output
}

// Show encodes r and writes one file per format.
func (s *FileSink) Show(r *raster.Raster, label string) error {
	if s.CropWidth > 0 && s.CropHeight > 0 {
		cropped, err := r.Crop(s.CropWidth, s.CropHeight)
		if err != nil {
			return fmt.Errorf("%s %s: %w", s.Key, label, err)
		}
		r = cropped
	}
	img := r.Image()

	keyDir := filepath.Dir(s.Key)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Join(s.OutputDir, keyDir), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", keyDir, err)
		}
	}

	for _, format := range s.Formats {
		enc := s.Registry.Get(format)
		if enc == nil {
			return fmt.Errorf("%s %s: no encoder for %q", s.Key, label, format)
		}
		data, err := enc.Encode(img, s.Quality)
		if err != nil {
			return fmt.Errorf("encode %s %s as %s: %w", s.Key, label, format, err)
		}

		contentHash := hasher.ContentHash(data, 16)
		fileName := fmt.Sprintf("%s.%s.%s.%s",
			filepath.Base(s.Key), label, contentHash[:8], enc.Extension())
		relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

		if err := os.WriteFile(filepath.Join(s.OutputDir, relPath), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", relPath, err)
		}

		s.Outputs = append(s.Outputs, manifest.Output{
			Label:  label,
			Format: enc.Format(),
			Width:  r.Width,
			Height: r.Height,
			Size:   int64(len(data)),
			Hash:   contentHash,
			Path:   relPath,
		})
	}
	return nil
}
