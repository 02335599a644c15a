package main

import (
	"os"

	"github.com/EgehanU/image-reconstruction-with-dct/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
