package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a reconstruction output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for manifest inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifestName)
	}

	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	printStats(cmd.OutOrStdout(), m)
	return nil
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Profile:          %s\n", m.Profile)
	if b := m.BuildInfo; b != nil {
		fmt.Fprintf(w, "  Workers:          %d images, %d per image\n", b.Workers, b.BlockWorkers)
		fmt.Fprintf(w, "  Discipline:       fill=%s rounding=%s order=%s dequant=%s round-coefficients=%t\n",
			b.Fill, b.Rounding, b.IndexOrder, b.Dequant, b.RoundCoefficients)
		if len(b.Table) > 0 {
			fmt.Fprintln(w, "  Step table:")
			for _, row := range b.Table {
				fmt.Fprint(w, "   ")
				for _, q := range row {
					fmt.Fprintf(w, " %3d", q)
				}
				fmt.Fprintln(w)
			}
		}
	}
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Total images:     %d\n", s.TotalImages)
	fmt.Fprintf(w, "  Total outputs:    %d\n", s.TotalOutputs)
	fmt.Fprintf(w, "  Total blocks:     %d\n", s.TotalBlocks)
	fmt.Fprintf(w, "  Clamped samples:  %d\n", s.TotalClamped)
	fmt.Fprintf(w, "  Mean MSE:         %.3f\n", s.MeanMSE)
	fmt.Fprintf(w, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Fprintln(w)

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, img := range m.Images {
		for _, o := range img.Outputs {
			fs := formatStats[o.Format]
			fs.count++
			fs.bytes += o.Size
			formatStats[o.Format] = fs
		}
	}

	fmt.Fprintln(w, "  Format breakdown:")
	for _, f := range []string{"png", "tiff", "bmp", "jpeg"} {
		if fs, ok := formatStats[f]; ok {
			fmt.Fprintf(w, "    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
		}
	}
	fmt.Fprintln(w)

	// PSNR histogram in 10 dB buckets.
	buckets := map[int]int{}
	exact := 0
	for _, img := range m.Images {
		if img.PSNR == nil {
			exact++
			continue
		}
		buckets[int(*img.PSNR)/10*10]++
	}
	var keys []int
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	fmt.Fprintln(w, "  PSNR breakdown:")
	for _, k := range keys {
		fmt.Fprintf(w, "    %3d-%-3d dB  %4d images\n", k, k+10, buckets[k])
	}
	if exact > 0 {
		fmt.Fprintf(w, "    exact       %4d images\n", exact)
	}

	// Warnings.
	var warnings []string
	for key, img := range m.Images {
		if len(img.Outputs) == 0 {
			warnings = append(warnings, fmt.Sprintf("image %q has no outputs", key))
		}
		if img.Clamped > 0 {
			warnings = append(warnings, fmt.Sprintf("image %q clamped %d samples", key, img.Clamped))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		for _, msg := range warnings {
			fmt.Fprintf(w, "    ⚠ %s\n", msg)
		}
	}
	fmt.Fprintln(w)
}
