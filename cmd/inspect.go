package cmd

import (
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/dct"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/profile"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/raster"
)

var (
	inspectProfile  string
	inspectBlockRow int
	inspectBlockCol int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <image>",
	Short: "Print the samples and quantized coefficients of one 8×8 block",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectProfile, "profile", "p", "standard", "reconstruction profile ("+profile.NameList()+")")
	inspectCmd.Flags().IntVar(&inspectBlockRow, "row", 0, "block row index")
	inspectCmd.Flags().IntVar(&inspectBlockCol, "col", 0, "block column index")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	img, err := imaging.Open(args[0], imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	luma, err := raster.FromImage(img)
	if err != nil {
		return fmt.Errorf("convert %s: %w", args[0], err)
	}

	prof := profile.Get(inspectProfile)
	opts := prof.Options(0)
	logVerbose("inspect %s: %dx%d, profile %s", args[0], luma.Width, luma.Height, prof.Name)

	coeffs, err := dct.Analyze(luma, opts)
	if err != nil {
		return err
	}
	row0, col0 := inspectBlockRow*dct.BlockSize, inspectBlockCol*dct.BlockSize
	if inspectBlockRow < 0 || inspectBlockCol < 0 || row0 >= coeffs.Height || col0 >= coeffs.Width {
		return fmt.Errorf("block (%d,%d) outside %dx%d blocks", inspectBlockRow, inspectBlockCol,
			coeffs.Height/dct.BlockSize, coeffs.Width/dct.BlockSize)
	}

	padded, err := dct.Pad(luma, opts.Fill)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "block (%d,%d) at row %d, col %d of %dx%d padded raster\n\n",
		inspectBlockRow, inspectBlockCol, row0, col0, padded.Width, padded.Height)

	fmt.Fprintln(out, "samples:")
	for r := 0; r < dct.BlockSize; r++ {
		for c := 0; c < dct.BlockSize; c++ {
			fmt.Fprintf(out, " %4d", padded.At(col0+c, row0+r))
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)

	blk := coeffs.Block(row0, col0)
	fmt.Fprintln(out, "quantized coefficients:")
	printBlock(out, &blk)
	return nil
}

func printBlock(w io.Writer, b *dct.Block) {
	for x := range b {
		for y := range b[x] {
			fmt.Fprintf(w, " %8.2f", b[x][y])
		}
		fmt.Fprintln(w)
	}
}
