package main

import (
	"github.com/ocf/adelie/internal/common/output"
	"github.com/ocf/adelie/internal/publish"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Show a run report written with --report",
	Long: `Show the updates recorded in a run report and how far each one got:
pending (never attempted), published (pull request opened) or failed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := showReport(args[0])
		return err
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

// showReport prints every entry of the report at path and returns it
func showReport(path string) (*publish.Report, error) {
	report, err := publish.LoadReport(path)
	if err != nil {
		return nil, err
	}

	if report.Len() == 0 {
		output.PrintInfo("Report is empty")
		return report, nil
	}

	for _, e := range report.List() {
		line := output.FormatStatus(string(e.Status)) + " " + output.FormatUpdate(e.Key, e.OldVersion, e.NewVersion)
		switch e.Status {
		case publish.StatusPublished:
			line += " " + output.FormatPullRequest(e.PullRequest, e.Branch, e.URL)
		case publish.StatusFailed:
			line += " " + output.Dim.Sprint(e.Error)
		}
		output.PrintLine("%s", line)
	}

	output.PrintInfo("%d updates: %d published, %d failed, %d pending", report.Len(),
		report.Count(publish.StatusPublished), report.Count(publish.StatusFailed), report.Count(publish.StatusPending))
	return report, nil
}
