// Package gbwterr defines the error taxonomy used at the GBWT API boundary.
//
// Internal helpers never return these across component boundaries; they
// return sentinel values (see the core package) instead. A FormatError or
// UsageError only appears once a request crosses into the public API.
package gbwterr

import "github.com/pkg/errors"

// FormatError reports a problem with a serialized GBWT file: a magic tag
// mismatch, a version mismatch, truncation, or a failed invariant check
// after deserialization.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "gbwt: format error: " + e.Reason
}

// NewFormatError wraps reason as a *FormatError with a captured stack trace.
func NewFormatError(reason string) error {
	return errors.WithStack(&FormatError{Reason: reason})
}

// UsageError reports a violation of the API contract: inserting text that
// does not end with the endmarker, or mutating a frozen static GBWT.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return "gbwt: usage error: " + e.Reason
}

// NewUsageError wraps reason as a *UsageError with a captured stack trace.
func NewUsageError(reason string) error {
	return errors.WithStack(&UsageError{Reason: reason})
}

// IsFormat reports whether err is (or wraps) a *FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsUsage reports whether err is (or wraps) a *UsageError.
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}
