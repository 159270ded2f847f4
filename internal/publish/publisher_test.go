package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/ocf/adelie/internal/common/errs"
	"github.com/ocf/adelie/internal/common/github"
	"github.com/ocf/adelie/internal/common/logger"
	"github.com/ocf/adelie/internal/publish/mocks"
	"github.com/ocf/adelie/internal/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/multierr"
)

var bot = github.Identity{Name: "ocfbot", Email: "ocfbot@ocf.berkeley.edu"}

func testBase() BaseState {
	return BaseState{
		Branch:    "main",
		CommitSHA: "c0ffee",
		FileSHA:   "blob123",
		Path:      "apps/versions.toml",
		Content:   "[redis]\nhelm = \"https://charts.example.com\"\nversion = \"17.0.0\"\n",
	}
}

func candidate(key, oldVersion, newVersion string) reconcile.Candidate {
	return reconcile.Candidate{
		Key:        key,
		Chart:      key,
		OldVersion: oldVersion,
		NewVersion: newVersion,
		Document:   fmt.Sprintf("[%s]\nversion = %q\n", key, newVersion),
	}
}

func newTestPublisher(h Hosting, opts ...Option) *Publisher {
	quiet := logger.New(io.Discard, logger.LevelQuiet)
	return NewPublisher(h, bot, append([]Option{WithLogger(quiet)}, opts...)...)
}

// expectPublished records the three calls a successful publication makes
func expectPublished(h *mocks.MockHosting, c reconcile.Candidate, base BaseState, number int) *gomock.Call {
	branch := BranchName(c)

	create := h.EXPECT().CreateBranch(gomock.Any(), branch, base.CommitSHA).
		Return(&github.Ref{Ref: "refs/heads/" + branch}, nil)

	update := h.EXPECT().UpdateFile(gomock.Any(), github.FileUpdate{
		Path:      base.Path,
		Branch:    branch,
		Message:   Title(c),
		Content:   []byte(c.Document),
		SHA:       base.FileSHA,
		Author:    bot,
		Committer: bot,
	}).Return(&github.CommitResult{}, nil).After(create)

	return h.EXPECT().CreatePullRequest(gomock.Any(), github.NewPullRequest{
		Title: Title(c),
		Head:  branch,
		Base:  base.Branch,
		Body:  PullRequestBody,
	}).Return(&github.PullRequest{Number: number, Title: Title(c), HTMLURL: fmt.Sprintf("https://github.com/ocf/kubernetes/pull/%d", number)}, nil).After(update)
}

func TestNaming(t *testing.T) {
	c := candidate("redis", "17.0.0", "17.0.5")

	assert.Equal(t, "u-redis-17.0.5", BranchName(c))
	assert.Equal(t, "feat: update redis -> v17.0.5", Title(c))
}

func TestPublishSequential(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHosting(ctrl)
	base := testBase()

	first := candidate("redis", "17.0.0", "17.0.5")
	second := candidate("grafana", "6.0.0", "6.1.0")

	gomock.InOrder(
		expectPublished(h, first, base, 1),
		expectPublished(h, second, base, 2),
	)

	prs, err := newTestPublisher(h).Publish(context.Background(), []reconcile.Candidate{first, second}, base)
	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, 1, prs[0].Number)
	assert.Equal(t, 2, prs[1].Number)
}

func TestPublishNoCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHosting(ctrl)

	prs, err := newTestPublisher(h).Publish(context.Background(), nil, testBase())
	require.NoError(t, err)
	assert.Empty(t, prs)
}

func TestPublishConflictIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHosting(ctrl)
	base := testBase()

	first := candidate("redis", "17.0.0", "17.0.5")
	second := candidate("grafana", "6.0.0", "6.1.0")

	h.EXPECT().CreateBranch(gomock.Any(), "u-redis-17.0.5", base.CommitSHA).Return(&github.Ref{}, nil)
	h.EXPECT().UpdateFile(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("failed to update: %w", github.ErrConflict))
	// no CreatePullRequest for redis, nothing at all for grafana

	report := NewReport("")
	prs, err := newTestPublisher(h, WithReport(report)).Publish(context.Background(), []reconcile.Candidate{first, second}, base)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConflict), "expected conflict, got %v", err)
	assert.Empty(t, prs)

	entry, ok := report.Get("redis")
	require.True(t, ok)
	assert.Equal(t, StatusFailed, entry.Status)

	entry, ok = report.Get("grafana")
	require.True(t, ok)
	assert.Equal(t, StatusPending, entry.Status)
}

func TestPublishRefExistsIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHosting(ctrl)
	base := testBase()

	first := candidate("redis", "17.0.0", "17.0.5")
	second := candidate("grafana", "6.0.0", "6.1.0")

	h.EXPECT().CreateBranch(gomock.Any(), "u-redis-17.0.5", base.CommitSHA).
		Return(nil, fmt.Errorf("failed to create branch: %w", github.ErrRefExists))

	_, err := newTestPublisher(h).Publish(context.Background(), []reconcile.Candidate{first, second}, base)
	assert.Equal(t, errs.KindRefExists, errs.KindOf(err))
}

func TestPublishKeepsEarlierPullRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHosting(ctrl)
	base := testBase()

	first := candidate("redis", "17.0.0", "17.0.5")
	second := candidate("grafana", "6.0.0", "6.1.0")

	published := expectPublished(h, first, base, 7)
	h.EXPECT().CreateBranch(gomock.Any(), "u-grafana-6.1.0", base.CommitSHA).Return(&github.Ref{}, nil).After(published)
	h.EXPECT().UpdateFile(gomock.Any(), gomock.Any()).Return(&github.CommitResult{}, nil)
	h.EXPECT().CreatePullRequest(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: HTTP 422: Validation Failed", github.ErrAPIError))

	prs, err := newTestPublisher(h).Publish(context.Background(), []reconcile.Candidate{first, second}, base)
	assert.Equal(t, errs.KindHostingAPI, errs.KindOf(err))
	require.Len(t, prs, 1)
	assert.Equal(t, 7, prs[0].Number)
}

func TestPublishKeepGoing(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHosting(ctrl)
	base := testBase()

	first := candidate("redis", "17.0.0", "17.0.5")
	second := candidate("grafana", "6.0.0", "6.1.0")
	third := candidate("loki", "2.0.0", "2.1.0")

	failed := h.EXPECT().CreateBranch(gomock.Any(), "u-redis-17.0.5", base.CommitSHA).
		Return(nil, github.ErrRefExists)
	expectPublished(h, second, base, 2).After(failed)
	h.EXPECT().CreateBranch(gomock.Any(), "u-loki-2.1.0", base.CommitSHA).
		Return(nil, github.ErrAPIError)

	report := NewReport("")
	prs, err := newTestPublisher(h, WithKeepGoing(true), WithReport(report)).
		Publish(context.Background(), []reconcile.Candidate{first, second, third}, base)

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.True(t, errors.Is(err, errs.ErrRefExists))
	assert.True(t, errors.Is(err, errs.ErrHostingAPI))

	require.Len(t, prs, 1)
	assert.Equal(t, 2, prs[0].Number)

	assert.Equal(t, 1, report.Count(StatusPublished))
	assert.Equal(t, 2, report.Count(StatusFailed))
}

func TestPublishStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHosting(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPublisher(h).Publish(ctx, []reconcile.Candidate{candidate("redis", "1", "2")}, testBase())
	assert.ErrorIs(t, err, context.Canceled)
}
