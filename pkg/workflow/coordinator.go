package workflow

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// TaskStatus is the lifecycle of a dispatched sub-task. A task reaching
// TaskSuccess or TaskFailed is terminal and never mutated again.
type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskSuccess TaskStatus = "success"
	TaskFailed  TaskStatus = "failed"
)

// TaskRequest is one unit of fan-out work identified by a caller-supplied
// id. Ids key the result map, so downstream consumers reconstruct the
// original sequence regardless of completion order.
type TaskRequest[I any] struct {
	ID      string
	Payload I
}

// TaskResult is the terminal outcome of one task.
type TaskResult[O any] struct {
	ID     string
	Status TaskStatus
	Value  O
	Err    error
}

// DefaultBound is the fan-out concurrency bound when none is configured.
const DefaultBound = 3

// Coordinator runs batches of independent sub-tasks under a concurrency
// bound, tolerating partial failure. Retries belong to the tasks themselves
// (through the step runner); the coordinator never retries.
type Coordinator struct {
	bound int64
	log   *zap.Logger
}

// NewCoordinator returns a coordinator with the given bound; bounds below
// one fall back to DefaultBound.
func NewCoordinator(bound int, log *zap.Logger) *Coordinator {
	if bound < 1 {
		bound = DefaultBound
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Coordinator{bound: int64(bound), log: log}
}

// Bound returns the configured concurrency bound.
func (c *Coordinator) Bound() int { return int(c.bound) }

// RunAll executes fn for every task, at most Bound() concurrently, and
// returns the per-id result map. Failed tasks are recorded as TaskFailed and
// excluded from the successful subset; only a batch in which every task
// fails raises an AggregateTaskError. Cancellation is cooperative: once ctx
// is done no new task starts, but tasks already running finish naturally.
func RunAll[I, O any](ctx context.Context, c *Coordinator, tasks []TaskRequest[I], fn func(context.Context, TaskRequest[I]) (O, error)) (map[string]TaskResult[O], error) {
	if len(tasks) == 0 {
		return map[string]TaskResult[O]{}, nil
	}

	c.log.Info("dispatching tasks",
		zap.Int("count", len(tasks)),
		zap.Int64("bound", c.bound))

	results := make([]TaskResult[O], len(tasks))
	sem := semaphore.NewWeighted(c.bound)

	var wgrp sync.WaitGroup
	for i, task := range tasks {
		if err := sem.Acquire(ctx, 1); err != nil {
			// The run was aborted upstream: record the remaining task as
			// failed without dispatching it.
			results[i] = TaskResult[O]{ID: task.ID, Status: TaskFailed, Err: err}

			continue
		}

		wgrp.Add(1)
		go func(i int, task TaskRequest[I]) {
			defer func() {
				sem.Release(1)
				wgrp.Done()
			}()

			out, err := fn(ctx, task)
			if err != nil {
				c.log.Warn("task failed", zap.String("id", task.ID), zap.Error(err))
				results[i] = TaskResult[O]{ID: task.ID, Status: TaskFailed, Err: err}

				return
			}
			results[i] = TaskResult[O]{ID: task.ID, Status: TaskSuccess, Value: out}
		}(i, task)
	}
	wgrp.Wait()

	byID := make(map[string]TaskResult[O], len(results))
	failed := map[string]error{}
	for _, res := range results {
		byID[res.ID] = res
		if res.Status == TaskFailed {
			failed[res.ID] = res.Err
		}
	}

	if len(failed) == len(tasks) {
		return nil, &AggregateTaskError{Errors: failed}
	}
	if len(failed) > 0 {
		c.log.Warn("batch degraded",
			zap.Int("failed", len(failed)),
			zap.Int("succeeded", len(tasks)-len(failed)))
	}
	c.log.Info("batch complete",
		zap.Int("succeeded", len(tasks)-len(failed)),
		zap.Int("failed", len(failed)))

	return byID, nil
}

// Successes filters a result map down to the successful values, keyed by id.
func Successes[O any](results map[string]TaskResult[O]) map[string]O {
	out := make(map[string]O, len(results))
	for id, res := range results {
		if res.Status == TaskSuccess {
			out[id] = res.Value
		}
	}

	return out
}
