package arxiv

import "errors"

// Common errors returned by the arXiv client.
var (
	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("arXiv API error")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with arXiv")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from arXiv")
)
