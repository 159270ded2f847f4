package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")
	// ErrRefExists indicates a branch or tag with that name already exists
	ErrRefExists = errors.New("reference already exists")
	// ErrConflict indicates the file changed since the SHA supplied with an update was read
	ErrConflict = errors.New("file has changed since it was read")
	// ErrRateLimit indicates GitHub API rate limit exceeded
	ErrRateLimit = errors.New("GitHub API rate limit exceeded")
	// ErrAPIError indicates a general GitHub API error
	ErrAPIError = errors.New("GitHub API error")
)

// APIError is a non-2xx response from the GitHub REST API.
type APIError struct {
	StatusCode       int
	Message          string
	DocumentationURL string
	Errors           []ValidationError
}

// ValidationError describes a field-level failure on a 422 response.
type ValidationError struct {
	Resource string `json:"resource"`
	Code     string `json:"code"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP %d: %s", e.StatusCode, e.Message)
	for _, v := range e.Errors {
		detail := v.Message
		if detail == "" {
			detail = v.Code
		}
		fmt.Fprintf(&b, "; %s.%s: %s", v.Resource, v.Field, detail)
	}
	return b.String()
}

// parseAPIError builds an APIError from a status code and response body.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var wire struct {
		Message          string            `json:"message"`
		DocumentationURL string            `json:"documentation_url"`
		Errors           []ValidationError `json:"errors"`
	}
	if json.Unmarshal(body, &wire) == nil && wire.Message != "" {
		apiErr.Message = wire.Message
		apiErr.DocumentationURL = wire.DocumentationURL
		apiErr.Errors = wire.Errors
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	return apiErr
}

// classify wraps apiErr in the sentinel matching its status and message.
func classify(apiErr *APIError) error {
	lower := strings.ToLower(apiErr.Message)

	switch {
	case apiErr.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	case apiErr.StatusCode == http.StatusTooManyRequests,
		apiErr.StatusCode == http.StatusForbidden && strings.Contains(lower, "rate limit"):
		return fmt.Errorf("%w: %w", ErrRateLimit, apiErr)
	case apiErr.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrConflict, apiErr)
	case apiErr.StatusCode == http.StatusUnprocessableEntity && strings.Contains(lower, "reference already exists"):
		return fmt.Errorf("%w: %w", ErrRefExists, apiErr)
	case apiErr.StatusCode == http.StatusUnprocessableEntity && strings.Contains(lower, "does not match"):
		return fmt.Errorf("%w: %w", ErrConflict, apiErr)
	default:
		return fmt.Errorf("%w: %w", ErrAPIError, apiErr)
	}
}
