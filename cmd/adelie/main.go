package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ocf/adelie/internal/common/logger"
	"github.com/ocf/adelie/internal/common/output"
	"github.com/spf13/cobra"
)

// defaultLogFile is the --log-file value used when the flag is given
// without a path
const defaultLogFile = "auto"

var (
	verbose    bool
	quiet      bool
	noColor    bool
	configPath string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "adelie",
	Short: "Keep pinned Helm chart versions up to date",
	Long: `Adelie reads the Helm chart inventory of a GitHub repository, looks up the
latest stable version of every chart in its repository index, and opens one pull
request per chart that has a newer version.

Set GITHUB_TOKEN to a token that can push branches and open pull requests on the
target repository.`,
	Example: `  # Check for updates without touching the repository
  adelie --dry-run

  # Open pull requests, continuing past individual failures
  adelie --keep-going --report adelie-report.json`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
		if logFile != "" {
			path := logFile
			if path == defaultLogFile {
				path = ""
			}
			if err := logger.Default().EnableFileLogging(path); err != nil {
				return err
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Default().Close()
	},
	RunE: runUpdate,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/adelie/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file (default $XDG_STATE_HOME/adelie/logs/adelie.log when given without a value)")
	rootCmd.PersistentFlags().Lookup("log-file").NoOptDefVal = defaultLogFile
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		output.PrintError("%v", err)
		os.Exit(1)
	}
}
