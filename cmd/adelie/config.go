package main

import (
	"fmt"

	"github.com/ocf/adelie/internal/common/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration a run would use: the config file merged over the
built-in defaults, with GITHUB_TOKEN applied. The token is masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := cfg.Redacted()
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Fprint(output.Out, string(data))

		if err := cfg.Validate(); err != nil {
			output.PrintWarning("%v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
