package helm

import (
	"context"
	"errors"
	"strings"

	"github.com/ocf/adelie/internal/common/errs"
	"github.com/ocf/adelie/internal/inventory"
)

var (
	errChartNotListed = errors.New("chart not listed in index")
	errNoStable       = errors.New("no stable version published")
)

// IndexFetcher retrieves a chart repository index
type IndexFetcher interface {
	Fetch(ctx context.Context, repoURL string) (*Index, error)
}

// Resolution is the latest stable version of a chart
type Resolution struct {
	Version    string
	AppVersion string
}

// Resolver finds the latest stable version of an inventory reference
type Resolver struct {
	fetcher IndexFetcher
}

// NewResolver creates a resolver backed by fetcher
func NewResolver(fetcher IndexFetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve fetches the index for ref's repository and returns the first
// stable record listed for ref.Chart. A chart absent from the index, or one
// with only prerelease records, is a not-found error.
func (r *Resolver) Resolve(ctx context.Context, ref inventory.Reference) (Resolution, error) {
	index, err := r.fetcher.Fetch(ctx, ref.RepoURL)
	if err != nil {
		return Resolution{}, err
	}

	records, ok := index.Entries[ref.Chart]
	if !ok {
		return Resolution{}, errs.New(errs.KindNotFound, "resolve", ref.Chart, errChartNotListed)
	}

	record, ok := SelectStable(records)
	if !ok {
		return Resolution{}, errs.New(errs.KindNotFound, "resolve", ref.Chart, errNoStable)
	}

	return Resolution{
		Version:    NormalizeVersion(record.Version),
		AppVersion: record.AppVersion,
	}, nil
}

// SelectStable returns the first stable record in list order. Versions are
// never compared; upstream indexes list newest first.
func SelectStable(records []Record) (Record, bool) {
	for _, record := range records {
		if IsStable(record.Version) {
			return record, true
		}
	}
	return Record{}, false
}

// IsStable reports whether version carries no prerelease suffix
func IsStable(version string) bool {
	return !strings.Contains(version, "-")
}

// NormalizeVersion strips a single leading "v"
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(version, "v")
}
