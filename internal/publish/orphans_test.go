package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/ocf/adelie/internal/common/github"
	"github.com/ocf/adelie/internal/publish/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/multierr"
)

func TestFindOrphans(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHosting(ctrl)

	h.EXPECT().ListBranches(gomock.Any(), BranchPrefix).
		Return([]string{"u-redis-17.0.5", "u-grafana-6.1.0", "u-loki-2.1.0"}, nil)
	h.EXPECT().ListOpenPullRequests(gomock.Any()).Return([]github.PullRequest{
		{Number: 1, Head: github.Branch{Ref: "u-grafana-6.1.0"}},
		{Number: 2, Head: github.Branch{Ref: "feature/unrelated"}},
	}, nil)

	orphans, err := FindOrphans(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, []string{"u-loki-2.1.0", "u-redis-17.0.5"}, orphans)
}

func TestFindOrphansListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHosting(ctrl)

	h.EXPECT().ListBranches(gomock.Any(), BranchPrefix).Return(nil, github.ErrRateLimit)

	_, err := FindOrphans(context.Background(), h)
	assert.ErrorIs(t, err, github.ErrRateLimit)
}

func TestDeleteOrphansContinuesPastFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHosting(ctrl)

	h.EXPECT().DeleteBranch(gomock.Any(), "u-a-1").Return(nil)
	h.EXPECT().DeleteBranch(gomock.Any(), "u-b-1").Return(errors.New("boom"))
	h.EXPECT().DeleteBranch(gomock.Any(), "u-c-1").Return(nil)

	deleted, err := DeleteOrphans(context.Background(), h, []string{"u-a-1", "u-b-1", "u-c-1"})
	assert.Equal(t, []string{"u-a-1", "u-c-1"}, deleted)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
}
