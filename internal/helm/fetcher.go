// Package helm reads Helm chart repository indexes and picks the newest
// stable version of a chart from them.
package helm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ocf/adelie/internal/common/errs"
	"github.com/ocf/adelie/internal/common/logger"
	"github.com/ocf/adelie/internal/common/version"
)

// IndexFile is the index document name under a chart repository URL
const IndexFile = "index.yaml"

// IndexURL returns the index location for repoURL. A trailing slash on
// repoURL is optional and any path below the host is preserved.
func IndexURL(repoURL string) (string, error) {
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("repository URL %q is not absolute", repoURL)
	}
	return u.JoinPath(IndexFile).String(), nil
}

// Fetcher downloads chart repository indexes. Every call hits the network;
// indexes are never cached.
type Fetcher struct {
	client *RetryableHTTPClient
	log    *logger.Logger
}

// NewFetcher creates a fetcher using client, or a default retrying client when nil
func NewFetcher(client *RetryableHTTPClient) *Fetcher {
	if client == nil {
		client = NewRetryableHTTPClient()
	}
	client.SetDefaultHeaders(map[string]string{
		"User-Agent": version.UserAgent(),
		"Accept":     "application/x-yaml, text/yaml, */*",
	})
	return &Fetcher{client: client, log: logger.Named("helm")}
}

// Fetch retrieves and decodes the index of the repository at repoURL.
// Transport failures and non-200 responses are fetch errors; bodies that
// do not match the index schema are decode errors.
func (f *Fetcher) Fetch(ctx context.Context, repoURL string) (*Index, error) {
	indexURL, err := IndexURL(repoURL)
	if err != nil {
		return nil, errs.New(errs.KindFetch, "fetch index", repoURL, err)
	}

	f.log.Debug("checking %s", indexURL)

	resp, err := f.client.Get(ctx, indexURL)
	if err != nil {
		return nil, errs.New(errs.KindFetch, "fetch index", indexURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.KindFetch, "fetch index", indexURL,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.New(errs.KindFetch, "read index", indexURL, err)
	}

	return decodeIndex(body, indexURL)
}
