package publish

import (
	"context"
	"errors"

	"github.com/ocf/adelie/internal/common/config"
	"github.com/ocf/adelie/internal/common/errs"
	"github.com/ocf/adelie/internal/common/github"
)

// BaseState is the base branch and inventory file as seen once at the start
// of a run. Every publication is made against it.
type BaseState struct {
	Branch    string
	CommitSHA string
	// FileSHA is the blob SHA of the inventory at CommitSHA, used as the
	// update precondition
	FileSHA string
	Path    string
	Content string
}

// Snapshot captures the base state of target. The file is read at the
// resolved commit so CommitSHA, FileSHA and Content agree.
func Snapshot(ctx context.Context, h Hosting, target config.TargetConfig) (BaseState, error) {
	commit, err := h.GetBranchSHA(ctx, target.Branch)
	if err != nil {
		return BaseState{}, snapshotError("resolve branch", target.Branch, err)
	}

	entry, err := h.GetContent(ctx, target.Path, commit)
	if err != nil {
		return BaseState{}, snapshotError("read inventory", target.Path, err)
	}

	var content []byte
	if entry.Content == "" {
		// above the contents API inline size limit
		content, err = h.RawFile(ctx, target.Path, commit)
	} else {
		content, err = entry.Decode()
	}
	if err != nil {
		return BaseState{}, snapshotError("read inventory", target.Path, err)
	}

	return BaseState{
		Branch:    target.Branch,
		CommitSHA: commit,
		FileSHA:   entry.SHA,
		Path:      target.Path,
		Content:   string(content),
	}, nil
}

func snapshotError(op, subject string, err error) error {
	if errors.Is(err, github.ErrNotFound) {
		return errs.New(errs.KindNotFound, op, subject, err)
	}
	return errs.New(errs.KindFetch, op, subject, err)
}
