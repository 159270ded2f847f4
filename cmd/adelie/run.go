package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/ocf/adelie/internal/common/config"
	"github.com/ocf/adelie/internal/common/errs"
	"github.com/ocf/adelie/internal/common/github"
	"github.com/ocf/adelie/internal/common/logger"
	"github.com/ocf/adelie/internal/common/output"
	"github.com/ocf/adelie/internal/helm"
	"github.com/ocf/adelie/internal/inventory"
	"github.com/ocf/adelie/internal/publish"
	"github.com/ocf/adelie/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	dryRun      bool
	keepGoing   bool
	concurrency int
	reportPath  string
)

func init() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report available updates without opening pull requests")
	rootCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue publishing the remaining updates after a failure")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum concurrent index fetches, 0 for unbounded (default from config)")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON report of every update and its publish status to this file")
}

// runOptions carries the command-line switches into runPipeline
type runOptions struct {
	dryRun     bool
	keepGoing  bool
	reportPath string
}

// runSummary counts the outcome of a run
type runSummary struct {
	Candidates int
	UpToDate   int
	Failed     int
	Published  int
}

// runUpdate is the root command: load configuration, wire the GitHub client
// and the chart resolver, then reconcile and publish.
func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Resolve.Concurrency = concurrency
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := github.NewClientWithOptions(cfg.GitHub.APIURL, cfg.Repository(), cfg.GitHub.Token, cfg.Resolve.Timeout)
	resolver := helm.NewResolver(helm.NewFetcher(newIndexClient(cfg.Resolve)))

	_, err = runPipeline(cmd.Context(), cfg, client, resolver, runOptions{
		dryRun:     dryRun,
		keepGoing:  keepGoing,
		reportPath: reportPath,
	})
	return err
}

// newIndexClient builds the retrying transport used for index downloads
func newIndexClient(rc config.ResolveConfig) *helm.RetryableHTTPClient {
	retry := helm.DefaultRetryConfig()
	retry.MaxRetries = rc.Retries
	if rc.Timeout > 0 {
		retry.Timeout = rc.Timeout
	}
	return helm.NewRetryableHTTPClientWithConfig(retry)
}

// loadConfig reads --config when given, the default location otherwise
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// runPipeline snapshots the inventory, reconciles it and, unless this is a
// dry run, publishes every candidate against the snapshot.
func runPipeline(ctx context.Context, cfg *config.Config, hosting publish.Hosting, resolver reconcile.Resolver, opts runOptions) (runSummary, error) {
	var summary runSummary

	logger.Debug("reading %s from %s@%s", cfg.Target.Path, cfg.Repository(), cfg.Target.Branch)
	base, err := publish.Snapshot(ctx, hosting, cfg.Target)
	if err != nil {
		return summary, err
	}

	doc, err := inventory.Parse(base.Content)
	if err != nil {
		return summary, err
	}

	pipeline, err := reconcile.New(resolver, reconcile.WithConcurrency(cfg.Resolve.Concurrency))
	if err != nil {
		return summary, errs.New(errs.KindConfig, "", "", err)
	}

	result, err := pipeline.Run(ctx, doc)
	if err != nil {
		return summary, err
	}

	summary.Candidates = len(result.Candidates)
	summary.UpToDate = len(result.UpToDate)
	summary.Failed = len(result.Failed)

	printResolution(result)

	if len(result.Candidates) == 0 {
		printSummary(summary, opts.dryRun)
		return summary, nil
	}

	report := publish.NewReport(opts.reportPath)

	if opts.dryRun {
		for _, c := range result.Candidates {
			if err := report.Add(c); err != nil {
				logger.Warn("failed to update report: %v", err)
			}
			output.PrintLine("would open %s on %s", publish.Title(c), publish.BranchName(c))
		}
		printSummary(summary, true)
		return summary, nil
	}

	publisher := publish.NewPublisher(hosting, github.Identity{
		Name:  cfg.Committer.Name,
		Email: cfg.Committer.Email,
	}, publish.WithKeepGoing(opts.keepGoing), publish.WithReport(report))

	prs, err := publisher.Publish(ctx, result.Candidates, base)
	for _, pr := range prs {
		output.PrintSuccess("%s", output.FormatPullRequest(pr.Number, pr.Title, pr.HTMLURL))
	}
	summary.Published = len(prs)
	printSummary(summary, false)

	return summary, err
}

// printResolution lists the detected updates and the charts that could not
// be resolved
func printResolution(result *reconcile.Result) {
	if len(result.Candidates) > 0 {
		output.PrintHeader("Updates")
		for _, c := range result.Candidates {
			output.PrintLine("%s", output.FormatUpdate(c.Key, c.OldVersion, c.NewVersion))
		}
	}

	if len(result.Failed) > 0 {
		keys := make([]string, 0, len(result.Failed))
		for key := range result.Failed {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		output.PrintHeader("Unresolved")
		for _, key := range keys {
			output.PrintWarning("%s: %v", key, result.Failed[key])
		}
	}
}

func printSummary(s runSummary, dry bool) {
	fmt.Fprintln(output.Out)
	switch {
	case s.Candidates == 0:
		output.PrintInfo("All charts up to date (%d checked, %d unresolved)", s.UpToDate, s.Failed)
	case dry:
		output.PrintInfo("%d updates available, %d up to date, %d unresolved", s.Candidates, s.UpToDate, s.Failed)
	default:
		output.PrintInfo("%d of %d pull requests opened, %d up to date, %d unresolved", s.Published, s.Candidates, s.UpToDate, s.Failed)
	}
}
