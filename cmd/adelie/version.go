package main

import (
	"fmt"

	"github.com/ocf/adelie/internal/common/output"
	"github.com/ocf/adelie/internal/common/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(output.Out, version.Info())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
