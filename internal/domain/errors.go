package domain

import "errors"

var (
	// ErrNotFound: no matching place, no reviews, or no stored analysis yet.
	// User-correctable, not a system fault.
	ErrNotFound = errors.New("not found")

	// ErrUpstream: a provider returned a non-success status. Transient; the
	// caller may retry, this layer does not.
	ErrUpstream = errors.New("upstream error")

	// ErrMalformedResponse: text-generation output did not parse as JSON or
	// was missing required fields. Indicates prompt/schema drift; the raw
	// text is logged at the point of failure, never coerced.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrValidation: caller-supplied identifiers missing or malformed.
	ErrValidation = errors.New("validation error")
)
