package manifest

// Manifest is the top-level report of a reconstruction run.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Images      map[string]Image `json:"images"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures the parameters every image was reconstructed with.
type BuildInfo struct {
	Workers           int     `json:"workers"`       // images in flight
	BlockWorkers      int     `json:"block_workers"` // goroutines per image, 0 = NumCPU
	Table             [][]int `json:"table"`         // effective 8×8 step table
	Fill              string  `json:"fill"`
	Rounding          string  `json:"rounding"`
	IndexOrder        string  `json:"index_order"`
	Dequant           string  `json:"dequant"`
	RoundCoefficients bool    `json:"round_coefficients"`
}

// Image describes one source image and the rasters written for it.
type Image struct {
	Original    OriginalInfo `json:"original"`
	Padded      Dimensions   `json:"padded"`
	Blocks      int          `json:"blocks"`
	Clamped     int          `json:"clamped,omitempty"` // samples saturated to [0,255]
	MSE         float64      `json:"mse"`
	PSNR        *float64     `json:"psnr,omitempty"` // nil when the reconstruction is exact
	Fingerprint string       `json:"fingerprint"`    // xxhash64 of the reconstructed samples
	Outputs     []Output     `json:"outputs"`
}

// OriginalInfo holds metadata about the source file.
type OriginalInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
	Hash   string `json:"hash"` // xxhash64 of the file bytes
}

// Dimensions is a width/height pair.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Output is one encoded raster shown through the sink.
type Output struct {
	Label  string `json:"label"`  // "source" or "reconstructed"
	Format string `json:"format"` // "png", "tiff", "bmp", "jpeg"
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // first 16 hex chars of xxhash64
	Path   string `json:"path"` // relative to base_path
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64   `json:"total_input_bytes"`
	TotalOutputBytes int64   `json:"total_output_bytes"`
	TotalImages      int     `json:"total_images"`
	TotalOutputs     int     `json:"total_outputs"`
	TotalBlocks      int     `json:"total_blocks"`
	TotalClamped     int     `json:"total_clamped,omitempty"`
	MeanMSE          float64 `json:"mean_mse"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
