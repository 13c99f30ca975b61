package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-deckbuilder/pkg/workflow"
)

var errBoom = errors.New("boom")

func quickRetry(attempts int) workflow.RetryPolicy {
	return workflow.RetryPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond, Multiplier: 1}
}

func TestRunStepFirstAttemptSucceeds(t *testing.T) {
	t.Parallel()

	calls := 0
	out, err := workflow.RunStep(context.Background(), workflow.NewRunner(nil), "steady", quickRetry(3),
		func(context.Context) (string, error) {
			calls++

			return "done", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, 1, calls)
}

func TestRunStepRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		failures  int
		wantCalls int
	}{
		"one failure":  {failures: 1, wantCalls: 2},
		"two failures": {failures: 2, wantCalls: 3},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			out, err := workflow.RunStep(context.Background(), workflow.NewRunner(nil), "flaky", quickRetry(5),
				func(context.Context) (int, error) {
					calls++
					if calls <= tc.failures {
						return 0, errBoom
					}

					return 42, nil
				})
			require.NoError(t, err)
			assert.Equal(t, 42, out)
			assert.Equal(t, tc.wantCalls, calls)
		})
	}
}

func TestRunStepExhaustsBudget(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := workflow.RunStep(context.Background(), workflow.NewRunner(nil), "doomed", quickRetry(3),
		func(context.Context) (int, error) {
			calls++

			return 0, errBoom
		})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, errBoom)

	var stepErr *workflow.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "doomed", stepErr.Stage)
	assert.Equal(t, 3, stepErr.Attempts)
}

func TestRunStepPermanentFailsFast(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := workflow.RunStep(context.Background(), workflow.NewRunner(nil), "denied", quickRetry(5),
		func(context.Context) (int, error) {
			calls++

			return 0, workflow.Permanent(errBoom)
		})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, errBoom)

	var stepErr *workflow.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Attempts)
}

func TestRunStepStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := workflow.RunStep(ctx, workflow.NewRunner(nil), "aborted",
		workflow.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour, Multiplier: 1},
		func(context.Context) (int, error) {
			calls++

			return 0, errBoom
		})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunStepZeroValuePolicy(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := workflow.RunStep(context.Background(), workflow.NewRunner(nil), "once", workflow.RetryPolicy{},
		func(context.Context) (int, error) {
			calls++

			return 0, errBoom
		})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPermanentNil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, workflow.Permanent(nil))
	assert.False(t, workflow.IsPermanent(errBoom))
	assert.True(t, workflow.IsPermanent(workflow.Permanent(errBoom)))
	assert.True(t, workflow.IsPermanent(errors.Wrap(workflow.Permanent(errBoom), "wrapped")))
}
