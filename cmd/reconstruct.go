package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/dct"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/manifest"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/pipeline"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/profile"
)

const manifestName = "dctrecon.manifest.json"

var (
	reconOutDir       string
	reconProfile      string
	reconWorkers      int
	reconBlockWorkers int
	reconScale        float64
	reconFill         string
	reconRounding     string
	reconFormats      []string
	reconQuality      int
	reconMaxDim       int
	reconCrop         bool
)

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct <input_dir>",
	Short: "Reconstruct every image in a directory through the block DCT",
	Long: `Scans input directory for images (png, jpg, jpeg, gif, bmp, tiff, webp),
converts each to luma, pads it to a multiple of 8, and runs forward DCT,
quantization, dequantization and inverse DCT over every 8×8 block.

Both the padded source and the reconstruction are written in the requested
formats as <key>.<label>.<hash>.ext, and a manifest records MSE/PSNR.`,
	Args: cobra.ExactArgs(1),
	RunE: runReconstruct,
}

func init() {
	f := reconstructCmd.Flags()
	f.StringVarP(&reconOutDir, "out", "o", "./dctrecon_out", "output directory")
	f.StringVarP(&reconProfile, "profile", "p", "standard", "reconstruction profile ("+profile.NameList()+")")
	f.IntVarP(&reconWorkers, "workers", "w", 0, "images processed in parallel (0 = NumCPU)")
	f.IntVar(&reconBlockWorkers, "block-workers", 0, "goroutines per image for the block pass (0 = NumCPU)")
	f.Float64Var(&reconScale, "scale", 0, "quantization table multiplier (0 = profile default)")
	f.StringVar(&reconFill, "fill", "", "padding fill: zero or edge (empty = profile default)")
	f.StringVar(&reconRounding, "rounding", "", "sample rounding: nearest or truncate (empty = profile default)")
	f.StringSliceVar(&reconFormats, "formats", nil, "output formats (overrides profile)")
	f.IntVarP(&reconQuality, "quality", "q", 0, "jpeg output quality 1-100 (0 = encoder default)")
	f.IntVar(&reconMaxDim, "max-dim", 0, "downscale inputs larger than this before reconstruction")
	f.BoolVar(&reconCrop, "crop", false, "crop written rasters back to the source dimensions")
	rootCmd.AddCommand(reconstructCmd)
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(reconOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, err := resolveProfile(reconProfile)
	if err != nil {
		return err
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (scale=%g, fill=%s, rounding=%s, order=%s, dequant=%s)",
		prof.Name, prof.Scale, prof.Fill, prof.Round, prof.Order, prof.Dequant)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:     absInput,
		OutputDir:    absOutput,
		Profile:      prof,
		Workers:      reconWorkers,
		BlockWorkers: reconBlockWorkers,
		Quality:      reconQuality,
		MaxDim:       reconMaxDim,
		Crop:         reconCrop,
		Verbose:      verbose,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifestName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printReconstructReport(cmd.OutOrStdout(), m, time.Since(start))
	return nil
}

// resolveProfile applies command-line overrides to the named profile.
func resolveProfile(name string) (profile.Profile, error) {
	prof := profile.Get(name)
	if err := dct.CheckScale(reconScale); err != nil {
		return prof, fmt.Errorf("--scale: %w", err)
	}
	if reconScale > 0 {
		prof.Scale = reconScale
	}
	if reconFill != "" {
		fill, err := dct.ParseFillPolicy(reconFill)
		if err != nil {
			return prof, err
		}
		prof.Fill = fill
	}
	if reconRounding != "" {
		r, err := dct.ParseRounding(reconRounding)
		if err != nil {
			return prof, err
		}
		prof.Round = r
	}
	if reconFormats != nil {
		prof.Formats = reconFormats
	}
	return prof, nil
}

func printReconstructReport(w io.Writer, m *manifest.Manifest, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║           dctrecon reconstruct complete          ║")
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Images:      %d\n", s.TotalImages)
	fmt.Fprintf(w, "  Outputs:     %d\n", s.TotalOutputs)
	fmt.Fprintf(w, "  Blocks:      %d\n", s.TotalBlocks)
	fmt.Fprintf(w, "  Mean MSE:    %.3f\n", s.MeanMSE)
	if s.TotalClamped > 0 {
		fmt.Fprintf(w, "  Clamped:     %d samples\n", s.TotalClamped)
	}
	fmt.Fprintf(w, "  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)

	// Worst 10 reconstructions by PSNR.
	if len(m.Images) > 0 {
		type item struct {
			key  string
			psnr float64
			mse  float64
		}
		var items []item
		for key, img := range m.Images {
			items = append(items, item{key, psnrOf(img), img.MSE})
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].psnr != items[j].psnr {
				return items[i].psnr < items[j].psnr
			}
			return items[i].key < items[j].key
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Fprintf(w, "  Worst %d by PSNR:\n", n)
		for _, it := range items[:n] {
			fmt.Fprintf(w, "    %-40s %8s  (mse %.3f)\n", truncKey(it.key, 40), formatPSNR(it.psnr), it.mse)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  Manifest:    %s\n", manifestName)
	fmt.Fprintln(w)
}

func psnrOf(img manifest.Image) float64 {
	if img.PSNR == nil {
		return math.Inf(1)
	}
	return *img.PSNR
}

func formatPSNR(v float64) string {
	if math.IsInf(v, 1) {
		return "exact"
	}
	return fmt.Sprintf("%.2f dB", v)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
