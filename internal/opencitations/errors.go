package opencitations

import "errors"

// Common errors returned by the OpenCitations client.
var (
	// ErrMissingAPIKey indicates no access token was configured.
	// OpenCitations requires one; it is checked at first use rather
	// than at construction so tests can build clients without keys.
	ErrMissingAPIKey = errors.New("OpenCitations access token not configured")

	// ErrNotFound indicates the index has no entry for the DOI.
	ErrNotFound = errors.New("not found in OpenCitations")

	// ErrAuthError indicates an invalid or rejected access token.
	ErrAuthError = errors.New("OpenCitations authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("OpenCitations rate limit exceeded")

	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("OpenCitations API error")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with OpenCitations")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from OpenCitations")
)
