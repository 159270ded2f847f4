// Package publish turns update candidates into branches, commits and pull
// requests on the repository hosting the inventory.
package publish

import (
	"context"
	"errors"

	"github.com/ocf/adelie/internal/common/errs"
	"github.com/ocf/adelie/internal/common/github"
)

//go:generate mockgen -source=hosting.go -destination=mocks/mock_hosting.go -package=mocks

// Hosting is the subset of the GitHub API the publisher drives.
// *github.Client implements it.
type Hosting interface {
	RawFile(ctx context.Context, path, ref string) ([]byte, error)
	GetContent(ctx context.Context, path, ref string) (*github.ContentEntry, error)
	GetBranchSHA(ctx context.Context, branch string) (string, error)
	CreateBranch(ctx context.Context, name, sha string) (*github.Ref, error)
	UpdateFile(ctx context.Context, update github.FileUpdate) (*github.CommitResult, error)
	CreatePullRequest(ctx context.Context, pr github.NewPullRequest) (*github.PullRequest, error)
	ListBranches(ctx context.Context, prefix string) ([]string, error)
	ListOpenPullRequests(ctx context.Context) ([]github.PullRequest, error)
	DeleteBranch(ctx context.Context, name string) error
}

var _ Hosting = (*github.Client)(nil)

// classify tags a hosting failure with its error kind
func classify(op, subject string, err error) error {
	kind := errs.KindHostingAPI
	switch {
	case errors.Is(err, github.ErrRefExists):
		kind = errs.KindRefExists
	case errors.Is(err, github.ErrConflict):
		kind = errs.KindConflict
	}
	return errs.New(kind, op, subject, err)
}
