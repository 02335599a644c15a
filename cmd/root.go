package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dctrecon",
	Short: "Block DCT reconstruction of grayscale images",
	Long: `dctrecon splits grayscale images into 8×8 blocks, runs the forward
DCT, quantizes every coefficient with a step table, and reconstructs the
image through the inverse transform.

Writes the padded source and the reconstruction for every input, plus a
manifest with per-image error metrics.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"dctrecon %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[dctrecon] "+format+"\n", args...)
	}
}
