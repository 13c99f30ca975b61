package workflow

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy is a reusable retry description shared by every stage: maximum
// attempt count plus an exponential backoff schedule.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy mirrors the behaviour external calls need: three
// attempts with a doubling one second backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 2}
}

// NoRetry runs a stage exactly once. Used for deterministic local stages
// where retrying cannot change the outcome.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

func (p RetryPolicy) normalised() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Multiplier <= 0 {
		p.Multiplier = 1
	}

	return p
}

// delay returns the sleep before the given retry; attempt is zero based.
func (p RetryPolicy) delay(attempt int) time.Duration {
	return time.Duration(float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt)))
}

// Runner executes named operations with uniform retry handling. Callers do
// not distinguish blocking from in-process operations; everything takes a
// context and returns a value or an error.
type Runner struct {
	log *zap.Logger
}

// NewRunner returns a runner emitting one log record per attempt through
// log.
func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{log: log}
}

// RunStep executes fn under the runner's retry handling. On failure it
// sleeps for BaseDelay * Multiplier^attempt between attempts, stops early on
// context cancellation or a Permanent error, and returns a StepError
// carrying the stage name and final attempt count once the budget is
// exhausted.
func RunStep[T any](ctx context.Context, r *Runner, name string, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	policy = policy.normalised()

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		r.log.Info("step attempt",
			zap.String("step", name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", policy.MaxAttempts))

		out, err := fn(ctx)
		if err == nil {
			r.log.Info("step succeeded", zap.String("step", name), zap.Int("attempt", attempt))

			return out, nil
		}

		lastErr = err
		r.log.Warn("step failed",
			zap.String("step", name),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if IsPermanent(err) {
			return zero, &StepError{Stage: name, Attempts: attempt, cause: err}
		}
		if attempt == policy.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, &StepError{Stage: name, Attempts: attempt, cause: ctx.Err()}
		case <-time.After(policy.delay(attempt - 1)):
		}
	}

	return zero, &StepError{Stage: name, Attempts: policy.MaxAttempts, cause: lastErr}
}
