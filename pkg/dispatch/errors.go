package dispatch

import (
	"errors"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ErrorClassification distinguishes the error kinds the dispatcher must
// tell apart per spec §7.
type ErrorClassification int

const (
	// ErrorRetryable indicates a transient failure that should be
	// retried with the event's backoff policy: network errors, rate
	// limiting, brief unavailability of a dependency.
	ErrorRetryable ErrorClassification = iota

	// ErrorTransient indicates a very short-lived failure, typically an
	// optimistic-lock conflict, expected to clear on the very next
	// event carrying a fresh snapshot.
	ErrorTransient

	// ErrorPermanent indicates retrying will not help without a change
	// to the resource's spec: validation failures, invalid references.
	ErrorPermanent

	// ErrorTerminal indicates a programming error: a malformed verdict,
	// a nil resource, a missing UID. Fatal to the current event; never
	// retried.
	ErrorTerminal
)

// String implements fmt.Stringer.
func (c ErrorClassification) String() string {
	switch c {
	case ErrorRetryable:
		return "retryable"
	case ErrorTransient:
		return "transient"
	case ErrorPermanent:
		return "permanent"
	case ErrorTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// ClassifiedError wraps a cause with the information the dispatcher and
// its caller need to decide how to react: whether to retry, with what
// urgency, and under what condition reason.
type ClassifiedError struct {
	Cause          error
	Classification ErrorClassification
	RetryAfter     time.Duration
	Reason         string
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Classification.String() + " error"
}

// Unwrap supports errors.Is/errors.As.
func (e *ClassifiedError) Unwrap() error { return e.Cause }

// Retryable wraps err as a retryable error.
func Retryable(err error) error {
	return &ClassifiedError{Cause: err, Classification: ErrorRetryable}
}

// RetryableAfter wraps err as retryable with an explicit delay hint,
// overriding whatever the event's RetryPolicy would otherwise compute for
// the next attempt.
func RetryableAfter(err error, after time.Duration) error {
	return &ClassifiedError{Cause: err, Classification: ErrorRetryable, RetryAfter: after}
}

// Transient wraps err as a short-lived, immediately-retryable error. Use
// for optimistic-lock conflicts.
func Transient(err error) error {
	return &ClassifiedError{Cause: err, Classification: ErrorTransient}
}

// Permanent wraps err as permanent: retrying will not help.
func Permanent(err error) error {
	return &ClassifiedError{Cause: err, Classification: ErrorPermanent}
}

// PermanentWithReason wraps err as permanent, attaching a machine-readable
// reason suitable for a condition or event.
func PermanentWithReason(err error, reason string) error {
	return &ClassifiedError{Cause: err, Classification: ErrorPermanent, Reason: reason}
}

// Terminal wraps err as a fatal programming error. Never retried.
func Terminal(err error) error {
	return &ClassifiedError{Cause: err, Classification: ErrorTerminal}
}

// ClassifyError returns the classification of err. Already-classified
// errors report their own classification; otherwise the error is
// inspected for familiar Kubernetes API error shapes and defaults to
// ErrorRetryable when nothing more specific applies.
func ClassifyError(err error) ErrorClassification {
	if err == nil {
		return ErrorRetryable
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Classification
	}

	return classifyAPIError(err)
}

func classifyAPIError(err error) ErrorClassification {
	switch {
	case apierrors.IsConflict(err), apierrors.IsServerTimeout(err):
		return ErrorTransient
	case apierrors.IsServiceUnavailable(err),
		apierrors.IsTooManyRequests(err),
		apierrors.IsTimeout(err),
		apierrors.IsInternalError(err):
		return ErrorRetryable
	case apierrors.IsNotFound(err),
		apierrors.IsBadRequest(err),
		apierrors.IsInvalid(err),
		apierrors.IsForbidden(err),
		apierrors.IsUnauthorized(err):
		return ErrorPermanent
	default:
		return ErrorRetryable
	}
}

// IsRetryable reports whether err should be retried per its
// classification (Retryable or Transient).
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	c := ClassifyError(err)
	return c == ErrorRetryable || c == ErrorTransient
}

// IsTerminal reports whether err is a fatal programming error that must
// never be retried.
func IsTerminal(err error) bool {
	return err != nil && ClassifyError(err) == ErrorTerminal
}

// GetRetryAfter returns the explicit retry delay hint carried by a
// ClassifiedError, or zero if none was set.
func GetRetryAfter(err error) time.Duration {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.RetryAfter
	}
	return 0
}

// MalformedVerdictError reports a verdict whose resource was nil when the
// verdict's kind required one. The dispatcher always returns it wrapped
// with Terminal; on its own it carries no classification.
type MalformedVerdictError struct {
	Kind string
}

func (e *MalformedVerdictError) Error() string {
	return fmt.Sprintf("malformed verdict: %s requires a non-nil resource", e.Kind)
}
