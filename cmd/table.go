package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/dct"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/profile"
)

var (
	tableProfile string
	tableScale   float64
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the effective quantization table of a profile",
	Args:  cobra.NoArgs,
	RunE:  runTable,
}

func init() {
	tableCmd.Flags().StringVarP(&tableProfile, "profile", "p", "standard", "reconstruction profile ("+profile.NameList()+")")
	tableCmd.Flags().Float64Var(&tableScale, "scale", 0, "quantization table multiplier (0 = profile default)")
	rootCmd.AddCommand(tableCmd)
}

func runTable(cmd *cobra.Command, _ []string) error {
	if err := dct.CheckScale(tableScale); err != nil {
		return fmt.Errorf("--scale: %w", err)
	}
	prof := profile.Get(tableProfile)
	if tableScale > 0 {
		prof.Scale = tableScale
	}
	if err := prof.Validate(); err != nil {
		return err
	}
	table := prof.EffectiveTable()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "profile %s (scale %g)\n", prof.Name, prof.Scale)
	fmt.Fprintf(out, "fill=%s rounding=%s order=%s dequant=%s round-coefficients=%t\n\n",
		prof.Fill, prof.Round, prof.Order, prof.Dequant, prof.RoundCoefficients)
	fmt.Fprint(out, table.String())
	return nil
}
