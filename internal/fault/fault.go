// Package fault defines the error taxonomy shared by all claimlens
// components. External failures are converted into a *Error at the call
// site so callers can branch on kind without parsing messages.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an operational failure
type Kind string

const (
	// NotFound: no records exist, or no active index handle for the claim
	NotFound Kind = "not_found"
	// NotReady: sufficiency thresholds unmet
	NotReady Kind = "not_ready"
	// InvalidFormat: malformed input, typically a bad date string
	InvalidFormat Kind = "invalid_format"
	// UpstreamUnavailable: external store or service failure
	UpstreamUnavailable Kind = "upstream_unavailable"
	// Timeout: bounded external call exceeded its deadline
	Timeout Kind = "timeout"
)

// Error carries a failure kind plus a human-readable explanation and an
// optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match on kind: errors.Is(err, &fault.Error{Kind: fault.NotFound}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New creates a fault of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a fault of the given kind around a cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the fault kind from an error chain. Errors outside the
// taxonomy report as UpstreamUnavailable, the catch-all for collaborator
// failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UpstreamUnavailable
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
