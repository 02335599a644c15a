package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/dct"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a dctrecon manifest and check referenced files exist",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	m, err := manifest.ReadJSON(manifestPath)
	if err != nil {
		return err
	}

	errs := validateManifest(m, filepath.Dir(manifestPath))
	w := cmd.OutOrStdout()

	if len(errs) == 0 {
		fmt.Fprintln(w, "  ✓ Manifest is valid")
		fmt.Fprintf(w, "  ✓ %d images, %d outputs — all files present\n", m.Stats.TotalImages, m.Stats.TotalOutputs)
		return nil
	}

	fmt.Fprintf(w, "  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	for key, img := range m.Images {
		// Padded extent must be the next block multiple of the original.
		pw, ph, err := dct.PaddedSize(img.Original.Width, img.Original.Height)
		if err != nil {
			errs = append(errs, fmt.Sprintf("image %q: invalid original dimensions %dx%d",
				key, img.Original.Width, img.Original.Height))
		} else if img.Padded.Width != pw || img.Padded.Height != ph {
			errs = append(errs, fmt.Sprintf("image %q: padded %dx%d, want %dx%d",
				key, img.Padded.Width, img.Padded.Height, pw, ph))
		} else if want := pw / dct.BlockSize * (ph / dct.BlockSize); img.Blocks != want {
			errs = append(errs, fmt.Sprintf("image %q: %d blocks, want %d", key, img.Blocks, want))
		}

		if img.MSE < 0 {
			errs = append(errs, fmt.Sprintf("image %q: negative mse %.4f", key, img.MSE))
		}
		if img.Fingerprint == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing fingerprint", key))
		}
		if len(img.Outputs) == 0 {
			errs = append(errs, fmt.Sprintf("image %q: no outputs", key))
		}

		seenPaths := map[string]bool{}
		for i, o := range img.Outputs {
			if o.Format == "" {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: empty format", key, i))
			}
			if o.Label != "source" && o.Label != "reconstructed" {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: unknown label %q", key, i, o.Label))
			}
			if o.Hash == "" {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: missing hash", key, i))
			}
			if o.Path == "" {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: missing path", key, i))
				continue
			}

			if seenPaths[o.Path] {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: duplicate path %q", key, i, o.Path))
			}
			seenPaths[o.Path] = true

			info, err := os.Stat(filepath.Join(baseDir, o.Path))
			if err != nil {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: file not found: %s", key, i, o.Path))
			} else if o.Size > 0 && info.Size() != o.Size {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: size mismatch: manifest=%d, disk=%d",
					key, i, o.Size, info.Size()))
			}
		}
	}

	// Verify stats consistency.
	outputCount := 0
	for _, img := range m.Images {
		outputCount += len(img.Outputs)
	}
	if m.Stats.TotalImages != len(m.Images) {
		errs = append(errs, fmt.Sprintf("stats.total_images mismatch: %d != %d", m.Stats.TotalImages, len(m.Images)))
	}
	if m.Stats.TotalOutputs != outputCount {
		errs = append(errs, fmt.Sprintf("stats.total_outputs mismatch: %d != %d", m.Stats.TotalOutputs, outputCount))
	}

	return errs
}
