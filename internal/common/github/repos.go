package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ContentEntry is a file returned by the contents API
type ContentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	SHA         string `json:"sha"`
	Size        int64  `json:"size"`
	Encoding    string `json:"encoding"`
	Content     string `json:"content"`
	DownloadURL string `json:"download_url"`
}

// Decode returns the file body. Files above the contents API size limit
// come back with an empty body and encoding "none"; use RawFile for those.
func (e *ContentEntry) Decode() ([]byte, error) {
	switch e.Encoding {
	case "base64":
		return base64.StdEncoding.DecodeString(strings.ReplaceAll(e.Content, "\n", ""))
	case "", "none":
		return []byte(e.Content), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", e.Encoding)
	}
}

// Ref is a git reference
type Ref struct {
	Ref    string    `json:"ref"`
	Object RefObject `json:"object"`
}

// RefObject is the object a Ref points at
type RefObject struct {
	SHA  string `json:"sha"`
	Type string `json:"type"`
}

// Identity is a commit author or committer
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FileUpdate describes a single-file commit through the contents API.
// SHA is the blob SHA the caller last read; the update is rejected with
// ErrConflict if the file has changed since.
type FileUpdate struct {
	Path      string
	Branch    string
	Message   string
	Content   []byte
	SHA       string
	Author    Identity
	Committer Identity
}

// CommitResult is the response to a file update
type CommitResult struct {
	Content struct {
		Path string `json:"path"`
		SHA  string `json:"sha"`
	} `json:"content"`
	Commit struct {
		SHA     string `json:"sha"`
		HTMLURL string `json:"html_url"`
	} `json:"commit"`
}

// NewPullRequest is the payload for opening a pull request
type NewPullRequest struct {
	Title string `json:"title"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	Body  string `json:"body"`
}

// PullRequest is an opened pull request
type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
	Head    Branch `json:"head"`
	Base    Branch `json:"base"`
}

// Branch is one side of a pull request
type Branch struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// RawFile downloads path at ref without the contents API size limit
func (c *Client) RawFile(ctx context.Context, path, ref string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.contentsPath(path, ref), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.raw+json")

	data, _, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s@%s: %w", path, ref, err)
	}
	return data, nil
}

// GetContent returns the file metadata and body of path at ref
func (c *Client) GetContent(ctx context.Context, path, ref string) (*ContentEntry, error) {
	var entry ContentEntry
	if err := c.call(ctx, http.MethodGet, c.contentsPath(path, ref), nil, &entry); err != nil {
		return nil, fmt.Errorf("failed to get %s@%s: %w", path, ref, err)
	}
	if entry.Type != "" && entry.Type != "file" {
		return nil, fmt.Errorf("%w: %s is a %s, not a file", ErrAPIError, path, entry.Type)
	}
	return &entry, nil
}

// GetBranchSHA returns the commit SHA at the head of branch
func (c *Client) GetBranchSHA(ctx context.Context, branch string) (string, error) {
	var ref Ref
	if err := c.call(ctx, http.MethodGet, c.repoPath("/git/ref/heads/%s", escapePath(branch)), nil, &ref); err != nil {
		return "", fmt.Errorf("failed to resolve branch %s: %w", branch, err)
	}
	return ref.Object.SHA, nil
}

// CreateBranch creates branch name pointing at sha. It fails with
// ErrRefExists if the name is taken.
func (c *Client) CreateBranch(ctx context.Context, name, sha string) (*Ref, error) {
	payload := map[string]string{
		"ref": "refs/heads/" + name,
		"sha": sha,
	}

	var ref Ref
	if err := c.call(ctx, http.MethodPost, c.repoPath("/git/refs"), payload, &ref); err != nil {
		return nil, fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return &ref, nil
}

// UpdateFile commits new content for an existing file on a branch
func (c *Client) UpdateFile(ctx context.Context, update FileUpdate) (*CommitResult, error) {
	payload := struct {
		Message   string   `json:"message"`
		Content   string   `json:"content"`
		SHA       string   `json:"sha"`
		Branch    string   `json:"branch"`
		Author    Identity `json:"author"`
		Committer Identity `json:"committer"`
	}{
		Message:   update.Message,
		Content:   base64.StdEncoding.EncodeToString(update.Content),
		SHA:       update.SHA,
		Branch:    update.Branch,
		Author:    update.Author,
		Committer: update.Committer,
	}

	var result CommitResult
	if err := c.call(ctx, http.MethodPut, c.repoPath("/contents/%s", escapePath(update.Path)), payload, &result); err != nil {
		return nil, fmt.Errorf("failed to update %s on %s: %w", update.Path, update.Branch, err)
	}
	return &result, nil
}

// CreatePullRequest opens a pull request
func (c *Client) CreatePullRequest(ctx context.Context, pr NewPullRequest) (*PullRequest, error) {
	var created PullRequest
	if err := c.call(ctx, http.MethodPost, c.repoPath("/pulls"), pr, &created); err != nil {
		return nil, fmt.Errorf("failed to open pull request %s -> %s: %w", pr.Head, pr.Base, err)
	}
	return &created, nil
}

// ListBranches returns the names of all branches starting with prefix
func (c *Client) ListBranches(ctx context.Context, prefix string) ([]string, error) {
	refs, err := list[Ref](ctx, c, c.repoPath("/git/matching-refs/heads/%s?per_page=100", escapePath(prefix)))
	if err != nil {
		return nil, fmt.Errorf("failed to list branches %s*: %w", prefix, err)
	}

	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, strings.TrimPrefix(ref.Ref, "refs/heads/"))
	}
	return names, nil
}

// ListOpenPullRequests returns every open pull request in the repository
func (c *Client) ListOpenPullRequests(ctx context.Context) ([]PullRequest, error) {
	prs, err := list[PullRequest](ctx, c, c.repoPath("/pulls?state=open&per_page=100"))
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}
	return prs, nil
}

// DeleteBranch removes branch name
func (c *Client) DeleteBranch(ctx context.Context, name string) error {
	if err := c.call(ctx, http.MethodDelete, c.repoPath("/git/refs/heads/%s", escapePath(name)), nil, nil); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", name, err)
	}
	return nil
}

func (c *Client) contentsPath(path, ref string) string {
	p := c.repoPath("/contents/%s", escapePath(path))
	if ref != "" {
		p += "?ref=" + url.QueryEscape(ref)
	}
	return p
}
