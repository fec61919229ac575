package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNotFound     = errors.New("not found")
	ErrNoCriteria   = errors.New("at least one search criterion is required")
	ErrMaxRetries   = errors.New("max retries exceeded")
	ErrNoStructured = errors.New("no structured data matched")
	ErrNoHeadline   = errors.New("article has no headline")
	ErrEmptyGraph   = errors.New("graph contains no statements")
	ErrInvalidURL   = errors.New("invalid URL")
)

// FetchError wraps errors that occur while retrieving a page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ParseError wraps errors from malformed structured-data blocks or markup.
// Parse errors are recovered locally: a bad fragment is skipped, never fatal.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StoreError wraps failures from the triple store, carrying the store's
// response body when one was returned.
type StoreError struct {
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *StoreError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("store %s failed (status %d): %s", e.Operation, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("store %s failed: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// EnrichError wraps failures from the external knowledge base. Enrichment is
// best-effort; callers log and continue.
type EnrichError struct {
	Entity string
	Err    error
}

func (e *EnrichError) Error() string {
	return fmt.Sprintf("enrichment lookup for %q: %v", e.Entity, e.Err)
}

func (e *EnrichError) Unwrap() error { return e.Err }
