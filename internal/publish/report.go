package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/ocf/adelie/internal/reconcile"
)

// ErrNotInReport is returned when a key was never added to the report
var ErrNotInReport = errors.New("candidate not found in report")

// Status is the publication state of a candidate
type Status string

const (
	// StatusPending means the candidate has not been published yet
	StatusPending Status = "pending"
	// StatusPublished means the pull request was opened
	StatusPublished Status = "published"
	// StatusFailed means publication stopped at an error
	StatusFailed Status = "failed"
)

// Entry is one candidate in a run report
type Entry struct {
	Key         string    `json:"key"`
	Chart       string    `json:"chart"`
	OldVersion  string    `json:"old_version"`
	NewVersion  string    `json:"new_version"`
	AppVersion  string    `json:"app_version,omitempty"`
	Branch      string    `json:"branch"`
	Status      Status    `json:"status"`
	PullRequest int       `json:"pull_request,omitempty"`
	URL         string    `json:"url,omitempty"`
	Error       string    `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// reportFile is the JSON structure written to disk
type reportFile struct {
	StartedAt time.Time        `json:"started_at"`
	Entries   map[string]Entry `json:"entries"`
}

// Report tracks the publication state of a run's candidates. When it has a
// path it rewrites the file after every change. It is safe for concurrent use.
type Report struct {
	entries   map[string]Entry
	startedAt time.Time
	path      string
	mu        sync.RWMutex
	nowFunc   func() time.Time
}

// ReportOption is a functional option for configuring Report
type ReportOption func(*Report)

// WithReportNowFunc sets a custom time function for testing
func WithReportNowFunc(fn func() time.Time) ReportOption {
	return func(r *Report) {
		r.nowFunc = fn
	}
}

// NewReport creates an empty report. An empty path keeps it in memory.
func NewReport(path string, opts ...ReportOption) *Report {
	r := &Report{
		entries: make(map[string]Entry),
		path:    path,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.startedAt = r.nowFunc()
	return r
}

// LoadReport reads a report written by a previous run
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rf reportFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}

	r := NewReport(path)
	r.startedAt = rf.StartedAt
	if rf.Entries != nil {
		r.entries = rf.Entries
	}
	return r, nil
}

// Add records candidate as pending
func (r *Report) Add(c reconcile.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[c.Key] = Entry{
		Key:        c.Key,
		Chart:      c.Chart,
		OldVersion: c.OldVersion,
		NewVersion: c.NewVersion,
		AppVersion: c.NewAppVersion,
		Branch:     BranchName(c),
		Status:     StatusPending,
		UpdatedAt:  r.nowFunc(),
	}
	return r.saveUnsafe()
}

// MarkPublished records the pull request opened for key
func (r *Report) MarkPublished(key string, number int, url string) error {
	return r.update(key, func(e *Entry) {
		e.Status = StatusPublished
		e.PullRequest = number
		e.URL = url
		e.Error = ""
	})
}

// MarkFailed records the error that stopped publication of key
func (r *Report) MarkFailed(key string, cause error) error {
	return r.update(key, func(e *Entry) {
		e.Status = StatusFailed
		e.Error = cause.Error()
	})
}

func (r *Report) update(key string, fn func(*Entry)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[key]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotInReport, key)
	}

	fn(&entry)
	entry.UpdatedAt = r.nowFunc()
	r.entries[key] = entry
	return r.saveUnsafe()
}

// Get retrieves the entry for key
func (r *Report) Get(key string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[key]
	return entry, exists
}

// List returns all entries sorted by key
func (r *Report) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Count returns the number of entries with status
func (r *Report) Count(status Status) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, entry := range r.entries {
		if entry.Status == status {
			n++
		}
	}
	return n
}

// Len returns the number of entries in the report.
func (r *Report) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// saveUnsafe persists the report without locking.
// Caller must hold the write lock.
func (r *Report) saveUnsafe() error {
	if r.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(reportFile{StartedAt: r.startedAt, Entries: r.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename report: %w", err)
	}

	return nil
}
