package main

import (
	"github.com/ocf/adelie/internal/common/github"
	"github.com/ocf/adelie/internal/common/output"
	"github.com/ocf/adelie/internal/publish"
	"github.com/spf13/cobra"
)

var deleteOrphans bool

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List update branches without an open pull request",
	Long: `List the update branches (u-<chart>-<version>) on the target repository that
have no open pull request, typically left behind by a merged or closed update or
by a run that failed after creating the branch.

With --delete the listed branches are removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		client := github.NewClientWithOptions(cfg.GitHub.APIURL, cfg.Repository(), cfg.GitHub.Token, cfg.Resolve.Timeout)
		_, err = runOrphans(cmd, client, deleteOrphans)
		return err
	},
}

func init() {
	orphansCmd.Flags().BoolVar(&deleteOrphans, "delete", false, "Delete the orphaned branches")
	rootCmd.AddCommand(orphansCmd)
}

// runOrphans lists, and optionally deletes, orphaned update branches. It
// returns the branches found.
func runOrphans(cmd *cobra.Command, h publish.Hosting, remove bool) ([]string, error) {
	ctx := cmd.Context()

	orphans, err := publish.FindOrphans(ctx, h)
	if err != nil {
		return nil, err
	}

	if len(orphans) == 0 {
		output.PrintInfo("No orphaned branches")
		return nil, nil
	}

	if !remove {
		for _, branch := range orphans {
			output.PrintLine("%s %s", output.FormatStatus("orphaned"), branch)
		}
		output.PrintInfo("%d orphaned branches, rerun with --delete to remove them", len(orphans))
		return orphans, nil
	}

	deleted, err := publish.DeleteOrphans(ctx, h, orphans)
	for _, branch := range deleted {
		output.PrintSuccess("Deleted %s", branch)
	}
	return orphans, err
}
