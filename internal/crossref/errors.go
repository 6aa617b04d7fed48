package crossref

import "errors"

// Common errors returned by the CrossRef client.
var (
	// ErrNotFound indicates the DOI has no CrossRef record.
	ErrNotFound = errors.New("not found in CrossRef")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("CrossRef rate limit exceeded")

	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("CrossRef API error")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with CrossRef")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from CrossRef")
)
