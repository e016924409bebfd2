package wp

import "errors"

// Error types for the content API layer.
var (
	// ErrMalformedURL is returned when a link cannot be parsed as an absolute URL
	ErrMalformedURL = errors.New("malformed url")

	// ErrUnexpectedStatus is returned when the content API answers with a non-OK status
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrMediaNotFound is returned when a media lookup yields no item
	ErrMediaNotFound = errors.New("media not found")
)
