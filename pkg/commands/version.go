package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is injected from the embedded VERSION file at startup.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("fmg-script-history %s\n", Version)
	},
}
