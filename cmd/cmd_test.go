package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/dct"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/manifest"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/profile"
)

func writeGradient(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x*20 + y*3)})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTableCommand(t *testing.T) {
	out, err := execute(t, "table", "--profile", "coarse", "--scale", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "profile coarse (scale 2)")
	assert.Contains(t, out, dct.DefaultQuantTable.Scale(2).String())
}

func TestInspectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.png")
	writeGradient(t, path, 12, 9)

	out, err := execute(t, "inspect", path, "--profile", "standard", "--row", "1", "--col", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "block (1,1) at row 8, col 8 of 16x16 padded raster")
	assert.Contains(t, out, "quantized coefficients:")

	_, err = execute(t, "inspect", path, "--row", "5", "--col", "0")
	assert.ErrorContains(t, err, "outside 2x2 blocks")
}

func TestReconstructStatsValidate(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeGradient(t, filepath.Join(in, "a.png"), 10, 10)
	writeGradient(t, filepath.Join(in, "b.png"), 17, 8)

	report, err := execute(t, "reconstruct", in, "--out", out, "--profile", "standard",
		"--fill", "edge", "--rounding", "nearest", "--formats", "png,bmp")
	require.NoError(t, err)
	assert.Contains(t, report, "dctrecon reconstruct complete")
	assert.Contains(t, report, "  Images:      2\n")
	assert.Contains(t, report, "  Blocks:      7\n")
	assert.Contains(t, report, "  Manifest:    "+manifestName)

	manifestPath := filepath.Join(out, manifestName)
	m, err := manifest.ReadJSON(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Stats.TotalImages)
	assert.Equal(t, 8, m.Stats.TotalOutputs)
	assert.Equal(t, "edge", m.BuildInfo.Fill)
	assert.Empty(t, validateManifest(m, out))

	stats, err := execute(t, "stats", out)
	require.NoError(t, err)
	assert.Contains(t, stats, "  Profile:          standard\n")
	assert.Contains(t, stats, "fill=edge rounding=nearest order=natural dequant=coefficient")
	assert.Contains(t, stats, "  Total images:     2\n")
	assert.Contains(t, stats, "  Total outputs:    8\n")
	assert.Contains(t, stats, "    png        4 files")
	assert.Contains(t, stats, "    bmp        4 files")

	valid, err := execute(t, "validate", manifestPath)
	require.NoError(t, err)
	assert.Contains(t, valid, "✓ Manifest is valid")
	assert.Contains(t, valid, "2 images, 8 outputs")

	// Break the manifest and check validation notices.
	img := m.Images["a"]
	img.Padded.Width = 10
	img.Outputs[0].Path = "missing.png"
	m.Images["a"] = img
	errs := validateManifest(m, out)
	assert.Len(t, errs, 2)
}

func TestResolveProfileRejectsBadOverrides(t *testing.T) {
	defer func() { reconFill, reconRounding = "", "" }()

	reconFill = "mirror"
	_, err := resolveProfile("standard")
	assert.Error(t, err)

	reconFill, reconRounding = "", "ceil"
	_, err = resolveProfile("standard")
	assert.Error(t, err)
}

func TestScaleRejectsNonFiniteFactors(t *testing.T) {
	defer func() { reconScale, tableScale = 0, 0 }()

	for _, v := range []string{"NaN", "+Inf", "-3"} {
		_, err := execute(t, "table", "--scale="+v)
		assert.ErrorIs(t, err, dct.ErrInvalidScale, "table --scale %s", v)
	}

	out, err := execute(t, "table", "--profile", "standard", "--scale", "1e20")
	require.NoError(t, err)
	assert.Contains(t, out, "65536 65536")

	reconScale = math.NaN()
	_, err = resolveProfile("standard")
	assert.ErrorIs(t, err, dct.ErrInvalidScale)

	reconScale = math.Inf(1)
	_, err = resolveProfile("coarse")
	assert.ErrorIs(t, err, dct.ErrInvalidScale)
}

func TestProfileFlagListsNames(t *testing.T) {
	for _, c := range []string{"reconstruct", "inspect", "table"} {
		sub, _, err := rootCmd.Find([]string{c})
		require.NoError(t, err)
		usage := sub.Flags().Lookup("profile").Usage
		for _, name := range profile.Names() {
			assert.Contains(t, usage, name, "%s --profile help", c)
		}
	}
}
