package scopus

import "errors"

// Common errors returned by the Scopus client.
var (
	// ErrMissingAPIKey indicates no Elsevier API key was configured.
	// Checked at first use rather than at construction so tests can
	// build clients without credentials.
	ErrMissingAPIKey = errors.New("Scopus API key not configured")

	// ErrNotFound indicates the EID has no Scopus record.
	ErrNotFound = errors.New("not found in Scopus")

	// ErrAuthError indicates an invalid or rejected API key.
	ErrAuthError = errors.New("Scopus authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("Scopus rate limit exceeded")

	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("Scopus API error")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with Scopus")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from Scopus")
)
