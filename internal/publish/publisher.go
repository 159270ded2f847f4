package publish

import (
	"context"
	"fmt"

	"github.com/ocf/adelie/internal/common/github"
	"github.com/ocf/adelie/internal/common/logger"
	"github.com/ocf/adelie/internal/reconcile"
	"go.uber.org/multierr"
)

const (
	// BranchPrefix starts the name of every update branch
	BranchPrefix = "u-"
	// PullRequestBody is the body of every update pull request
	PullRequestBody = "Please be sure to test this change before merging!"
)

// BranchName returns the update branch for c: u-<key>-<newVersion>
func BranchName(c reconcile.Candidate) string {
	return BranchPrefix + c.Key + "-" + c.NewVersion
}

// Title returns the pull request title and commit message for c
func Title(c reconcile.Candidate) string {
	return fmt.Sprintf("feat: update %s -> v%s", c.Key, c.NewVersion)
}

// Publisher opens one pull request per candidate, one candidate at a time
type Publisher struct {
	hosting   Hosting
	identity  github.Identity
	keepGoing bool
	report    *Report
	log       *logger.Logger
}

// Option configures a Publisher
type Option func(*Publisher)

// WithKeepGoing makes a failed candidate stop only itself. The run still
// returns every failure, combined.
func WithKeepGoing(keepGoing bool) Option {
	return func(p *Publisher) {
		p.keepGoing = keepGoing
	}
}

// WithReport records each candidate's progress in r
func WithReport(r *Report) Option {
	return func(p *Publisher) {
		p.report = r
	}
}

// WithLogger sets the logger used for progress lines
func WithLogger(log *logger.Logger) Option {
	return func(p *Publisher) {
		p.log = log
	}
}

// NewPublisher creates a publisher committing as identity
func NewPublisher(h Hosting, identity github.Identity, opts ...Option) *Publisher {
	p := &Publisher{
		hosting:  h,
		identity: identity,
		report:   NewReport(""),
		log:      logger.Named("publish"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish creates a branch, a commit and a pull request for each candidate
// in order, all against base. By default the first failure stops the run
// and later candidates are never attempted; nothing already created is
// rolled back. The returned pull requests are those opened before any
// failure.
func (p *Publisher) Publish(ctx context.Context, candidates []reconcile.Candidate, base BaseState) ([]github.PullRequest, error) {
	for _, c := range candidates {
		if err := p.report.Add(c); err != nil {
			p.log.Warn("failed to update report: %v", err)
		}
	}

	var opened []github.PullRequest
	var failures error

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return opened, multierr.Append(failures, err)
		}

		pr, err := p.publishOne(ctx, c, base)
		if err != nil {
			if rerr := p.report.MarkFailed(c.Key, err); rerr != nil {
				p.log.Warn("failed to update report: %v", rerr)
			}
			if !p.keepGoing {
				return opened, err
			}
			p.log.Error("%s: %v", c.Key, err)
			failures = multierr.Append(failures, err)
			continue
		}

		if rerr := p.report.MarkPublished(c.Key, pr.Number, pr.HTMLURL); rerr != nil {
			p.log.Warn("failed to update report: %v", rerr)
		}
		opened = append(opened, *pr)
	}

	return opened, failures
}

func (p *Publisher) publishOne(ctx context.Context, c reconcile.Candidate, base BaseState) (*github.PullRequest, error) {
	branch := BranchName(c)
	title := Title(c)

	p.log.Debug("creating branch %s at %s", branch, base.CommitSHA)
	if _, err := p.hosting.CreateBranch(ctx, branch, base.CommitSHA); err != nil {
		return nil, classify("create branch", branch, err)
	}

	if _, err := p.hosting.UpdateFile(ctx, github.FileUpdate{
		Path:      base.Path,
		Branch:    branch,
		Message:   title,
		Content:   []byte(c.Document),
		SHA:       base.FileSHA,
		Author:    p.identity,
		Committer: p.identity,
	}); err != nil {
		return nil, classify("commit", branch, err)
	}

	pr, err := p.hosting.CreatePullRequest(ctx, github.NewPullRequest{
		Title: title,
		Head:  branch,
		Base:  base.Branch,
		Body:  PullRequestBody,
	})
	if err != nil {
		return nil, classify("open pull request", branch, err)
	}

	p.log.Info("Opened #%d %s", pr.Number, title)
	return pr, nil
}
