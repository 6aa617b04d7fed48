package dblp

import "errors"

// Common errors returned by the DBLP client.
var (
	// ErrNotFound indicates the key has no DBLP record.
	ErrNotFound = errors.New("not found in DBLP")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("DBLP rate limit exceeded")

	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("DBLP API error")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with DBLP")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from DBLP")
)
