package services

import (
	"errors"
	"fmt"
)

// ErrNoCriteriaAvailable is returned when the criteria sheet is reachable
// but empty. Screening is refused rather than run with no rubric.
var ErrNoCriteriaAvailable = errors.New("no scoring criteria available")

// ErrEmptyContextLabel is returned when a screening request carries no
// context label to match a role against.
var ErrEmptyContextLabel = errors.New("context label is required")

// ConfigurationError means a required credential or setting is absent.
// Never retried; the missing setting is named so the operator can fix it.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Setting)
}

// UpstreamError means a remote dependency returned a failure. The raw
// response body is preserved for diagnosis.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: status %d: %s", e.Op, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ParseError means a remote dependency returned success but the payload
// violated its contract. The raw payload is kept for debugging; it is never
// silently coerced into a default result.
type ParseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed upstream response: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadError means a local document could not be read. Not transient in this
// context, so never retried.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read document %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
