// Package reconcile resolves every inventory reference against its chart
// repository and turns the ones with a newer stable version into update
// candidates.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ocf/adelie/internal/common/errs"
	"github.com/ocf/adelie/internal/common/logger"
	"github.com/ocf/adelie/internal/helm"
	"github.com/ocf/adelie/internal/inventory"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps simultaneous resolutions when no option is given
const DefaultConcurrency = 8

// ErrInvalidConcurrency is returned for a negative concurrency limit
var ErrInvalidConcurrency = errors.New("concurrency must not be negative")

// Resolver returns the latest stable version of a reference
type Resolver interface {
	Resolve(ctx context.Context, ref inventory.Reference) (helm.Resolution, error)
}

// Candidate is a reference with a newer upstream version, paired with the
// base document edited to pin that version. OldVersion never equals
// NewVersion.
type Candidate struct {
	Key           string
	Chart         string
	OldVersion    string
	NewVersion    string
	OldAppVersion string
	NewAppVersion string
	// Document is the full inventory text with only this reference's
	// version changed
	Document string
}

// Result is the outcome of one reconciliation
type Result struct {
	// Candidates are in completion order
	Candidates []Candidate
	// UpToDate lists the keys whose resolved version equals the pinned one
	UpToDate []string
	// Failed maps keys to the error that dropped them
	Failed map[string]error
}

// Pipeline fans out resolutions across an inventory
type Pipeline struct {
	resolver    Resolver
	concurrency int
	log         *logger.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline) error

// WithConcurrency bounds the number of resolutions in flight. Zero means
// unbounded.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) error {
		if n < 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidConcurrency, n)
		}
		p.concurrency = n
		return nil
	}
}

// WithLogger sets the logger used for progress lines
func WithLogger(log *logger.Logger) Option {
	return func(p *Pipeline) error {
		p.log = log
		return nil
	}
}

// New creates a pipeline resolving through resolver
func New(resolver Resolver, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		resolver:    resolver,
		concurrency: DefaultConcurrency,
		log:         logger.Named("reconcile"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("failed to apply pipeline option: %w", err)
		}
	}

	return p, nil
}

// Reconcile returns the update candidates for doc in completion order.
// Resolution failures drop the affected reference and never fail the run;
// only cancellation of ctx does.
func (p *Pipeline) Reconcile(ctx context.Context, doc *inventory.Document) ([]Candidate, error) {
	result, err := p.Run(ctx, doc)
	if err != nil {
		return nil, err
	}
	return result.Candidates, nil
}

// Run reconciles doc and also reports which references were current and
// which failed.
func (p *Pipeline) Run(ctx context.Context, doc *inventory.Document) (*Result, error) {
	for _, s := range doc.Skipped() {
		p.log.Warn("skipping %s: %s", s.Key, s.Reason)
	}

	result := &Result{Failed: make(map[string]error)}
	var mu sync.Mutex

	var g errgroup.Group
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}

	for _, ref := range doc.References() {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			candidate, err := p.reconcileOne(ctx, doc, ref)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed[ref.Key] = err
			case candidate == nil:
				result.UpToDate = append(result.UpToDate, ref.Key)
			default:
				result.Candidates = append(result.Candidates, *candidate)
			}
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// reconcileOne resolves ref and builds its candidate. It returns nil, nil
// when ref is already current.
func (p *Pipeline) reconcileOne(ctx context.Context, doc *inventory.Document, ref inventory.Reference) (*Candidate, error) {
	resolution, err := p.resolver.Resolve(ctx, ref)
	if err != nil {
		p.logFailure(ref, err)
		return nil, err
	}

	if resolution.Version == ref.Version {
		p.log.Debug("%s is up to date at %s", ref.Key, ref.Version)
		return nil, nil
	}

	text, err := doc.SetVersion(ref.Key, resolution.Version)
	if err != nil {
		p.log.Warn("cannot edit %s: %v", ref.Key, err)
		return nil, err
	}

	p.log.Info("Update found: %s from %s -> %s", ref.Key, ref.Version, resolution.Version)

	return &Candidate{
		Key:           ref.Key,
		Chart:         ref.Chart,
		OldVersion:    ref.Version,
		NewVersion:    resolution.Version,
		OldAppVersion: ref.AppVersion,
		NewAppVersion: resolution.AppVersion,
		Document:      text,
	}, nil
}

func (p *Pipeline) logFailure(ref inventory.Reference, err error) {
	switch kind := errs.KindOf(err); kind {
	case errs.KindNotFound:
		p.log.Debug("no stable version of %s in %s: %v", ref.Chart, ref.RepoURL, err)
	default:
		p.log.Warn("skipping %s (%s): %v", ref.Key, kind, err)
	}
}
