package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals
var (
	version   = "undefined"
	buildTime = "undefined"
)

//nolint:gochecknoglobals
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cdnskey-scanner",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "cdnskey-scanner")
		fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "Build time: %s\n", buildTime)
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(versionCmd)
}
