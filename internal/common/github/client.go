package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ocf/adelie/internal/common/version"
)

// apiVersion pins the REST API version
const apiVersion = "2022-11-28"

// Client handles communication with the GitHub API for one repository
type Client struct {
	BaseURL    string
	Repository string // "owner/repo"
	UserAgent  string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a client for repository authenticated with token
func NewClient(repository, token string) *Client {
	return &Client{
		BaseURL:    "https://api.github.com",
		Repository: repository,
		UserAgent:  version.UserAgent(),
		Token:      token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithOptions creates a client with a custom API URL and timeout
func NewClientWithOptions(baseURL, repository, token string, timeout time.Duration) *Client {
	client := NewClient(repository, token)
	if baseURL != "" {
		client.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout > 0 {
		client.HTTPClient.Timeout = timeout
	}
	return client
}

// repoPath returns /repos/owner/repo followed by the given suffix
func (c *Client) repoPath(format string, args ...interface{}) string {
	return "/repos/" + c.Repository + fmt.Sprintf(format, args...)
}

// escapePath escapes each segment of a slash-separated path
func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// newRequest builds an authenticated request. target is either an API path
// starting with "/" or an absolute URL taken from a Link header.
func (c *Client) newRequest(ctx context.Context, method, target string, body interface{}) (*http.Request, error) {
	endpoint := target
	if strings.HasPrefix(target, "/") {
		endpoint = strings.TrimRight(c.BaseURL, "/") + target
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	return req, nil
}

// do executes req and returns the response body. Non-2xx responses are
// returned as classified *APIError values.
func (c *Client) do(req *http.Request) ([]byte, http.Header, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s %s: %v", ErrAPIError, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading response body: %v", ErrAPIError, err)
	}

	if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
		return nil, nil, fmt.Errorf("%w: resets at %s", ErrRateLimit, resp.Header.Get("X-RateLimit-Reset"))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, classify(parseAPIError(resp.StatusCode, body))
	}

	return body, resp.Header, nil
}

// call performs a JSON request and decodes the response into result
func (c *Client) call(ctx context.Context, method, path string, body, result interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	data, _, err := c.do(req)
	if err != nil {
		return err
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to parse GitHub response: %w", err)
		}
	}
	return nil
}

// list follows Link rel="next" headers and concatenates every page
func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T

	next := path
	for next != "" {
		req, err := c.newRequest(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}

		data, header, err := c.do(req)
		if err != nil {
			return nil, err
		}

		var page []T
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("failed to parse GitHub response: %w", err)
		}
		all = append(all, page...)

		next = parseLinkNext(header.Get("Link"))
	}

	return all, nil
}

// parseLinkNext extracts the rel="next" URL from an RFC 5988 Link header
func parseLinkNext(header string) string {
	for _, part := range strings.Split(header, ",") {
		segments := strings.SplitN(strings.TrimSpace(part), ";", 2)
		if len(segments) != 2 || !strings.Contains(segments[1], `rel="next"`) {
			continue
		}
		link := strings.TrimSpace(segments[0])
		if strings.HasPrefix(link, "<") && strings.HasSuffix(link, ">") {
			return link[1 : len(link)-1]
		}
	}
	return ""
}
