package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by goreleaser via -ldflags; local builds report
// the devel placeholder, which also disables self-update.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the carhythm version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("carhythm %s\n", version)
	},
}
