package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgectl/forge/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
		if verbose {
			info := version.Map()
			for _, k := range []string{"version", "commit", "buildTime", "goVersion", "os", "arch"} {
				fmt.Printf("  %s: %s\n", k, info[k])
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
