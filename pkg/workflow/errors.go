package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("pipeline must be set")
	ErrNoStages          = errors.New("pipeline has no stages")
	ErrGatewayMustBeSet  = errors.New("gateway must be set")
	ErrStoreMustBeSet    = errors.New("asset store must be set")
	ErrRendererMustBeSet = errors.New("renderer must be set")
)

// ErrorRecord captures everything known about a failed stage: the stage
// name, how many attempts were spent, the underlying cause and free-form
// context. It is attached to a failed run, never to the success path.
type ErrorRecord struct {
	Stage    string
	Attempts int
	Cause    error
	Context  map[string]string
}

// StepError reports a stage that exhausted its retry budget. Attempts is the
// final attempt count.
type StepError struct {
	Stage    string
	Attempts int
	cause    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("stage %q failed after %d attempt(s): %v", e.Stage, e.Attempts, e.cause)
}

func (e *StepError) Unwrap() error { return e.cause }

// AggregateTaskError reports a fan-out batch in which every task failed.
// A batch with at least one success never raises it; the failures stay in
// the result map instead.
type AggregateTaskError struct {
	Errors map[string]error
}

func (e *AggregateTaskError) Error() string {
	ids := make([]string, 0, len(e.Errors))
	for id := range e.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %v", id, e.Errors[id]))
	}

	return fmt.Sprintf("all %d task(s) failed: %s", len(e.Errors), strings.Join(parts, "; "))
}

// permanentError marks an error as not worth retrying. The step runner stops
// on it immediately instead of burning the remaining attempts.
type permanentError struct {
	cause error
}

func (e *permanentError) Error() string { return e.cause.Error() }

func (e *permanentError) Unwrap() error { return e.cause }

// Permanent wraps err so the step runner fails fast instead of retrying.
// Gateways use it for authentication failures.
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return &permanentError{cause: err}
}

// IsPermanent reports whether err carries the no-retry marker.
func IsPermanent(err error) bool {
	var pe *permanentError

	return errors.As(err, &pe)
}
