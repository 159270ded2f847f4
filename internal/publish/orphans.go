package publish

import (
	"context"
	"sort"

	"github.com/ocf/adelie/internal/common/errs"
	"go.uber.org/multierr"
)

// FindOrphans returns update branches that no open pull request uses as
// its head, sorted by name. They are left behind by runs that failed after
// creating a branch, or by pull requests closed without deleting it.
func FindOrphans(ctx context.Context, h Hosting) ([]string, error) {
	branches, err := h.ListBranches(ctx, BranchPrefix)
	if err != nil {
		return nil, errs.New(errs.KindHostingAPI, "list branches", BranchPrefix+"*", err)
	}

	prs, err := h.ListOpenPullRequests(ctx)
	if err != nil {
		return nil, errs.New(errs.KindHostingAPI, "list pull requests", "", err)
	}

	open := make(map[string]bool, len(prs))
	for _, pr := range prs {
		open[pr.Head.Ref] = true
	}

	var orphans []string
	for _, branch := range branches {
		if !open[branch] {
			orphans = append(orphans, branch)
		}
	}
	sort.Strings(orphans)
	return orphans, nil
}

// DeleteOrphans deletes each branch, continuing past failures, and returns
// the names that were deleted along with every failure combined.
func DeleteOrphans(ctx context.Context, h Hosting, branches []string) ([]string, error) {
	var deleted []string
	var failures error

	for _, branch := range branches {
		if err := ctx.Err(); err != nil {
			return deleted, multierr.Append(failures, err)
		}
		if err := h.DeleteBranch(ctx, branch); err != nil {
			failures = multierr.Append(failures, errs.New(errs.KindHostingAPI, "delete branch", branch, err))
			continue
		}
		deleted = append(deleted, branch)
	}

	return deleted, failures
}
