// Package gateway implements the model gateway consumed by the pipelines:
// a thin client over the external generative service that surfaces
// authentication, rate limiting and timeouts as distinguishable error kinds
// so the step runner can decide retry eligibility.
package gateway

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a gateway failure for retry decisions.
type Kind string

const (
	// KindAuth is fatal: retrying an authentication failure cannot help.
	KindAuth Kind = "authentication"
	// KindRateLimit is retryable with backoff.
	KindRateLimit Kind = "rate_limit"
	// KindTimeout is retryable and counts against the step retry budget.
	KindTimeout Kind = "timeout"
	// KindUnavailable covers transient upstream failures.
	KindUnavailable Kind = "unavailable"
	// KindInvalidResponse covers a response the service returned but that
	// is unusable (empty candidates, no payload).
	KindInvalidResponse Kind = "invalid_response"
)

// Error is a classified gateway failure.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("model gateway %s error: %v", e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf extracts the classification from err, if any.
func KindOf(err error) (Kind, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind, true
	}

	return "", false
}
