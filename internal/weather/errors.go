package weather

import "errors"

var (
	// ErrUpstream covers non-2xx provider responses, network failures and
	// request timeouts. Never retried; the caller surfaces it as-is.
	ErrUpstream = errors.New("upstream provider failure")

	// ErrMalformedResponse marks a 2xx response whose body is missing fields
	// the mapping requires. Treated like ErrUpstream at the service boundary.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrNotPersisted is returned by Settings implementations when a slot has
	// never been written.
	ErrNotPersisted = errors.New("setting not persisted")
)
