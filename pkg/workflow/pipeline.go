package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-deckbuilder/pkg/workflow/model"
)

// State is the pipeline lifecycle.
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Status is the externally visible pipeline state: the current lifecycle
// state, the stage it refers to, and the error record when failed.
type Status struct {
	State  State
	Stage  string
	Record *ErrorRecord
}

// Stage is one ordered step of a pipeline. Stages are created when the
// pipeline is constructed and immutable thereafter.
type Stage struct {
	Name       string
	Policy     RetryPolicy
	Concurrent int
	Run        func(ctx context.Context) error
}

// Pipeline executes a fixed ordered stage sequence through the step runner.
// A stage failure, after the runner exhausts its retries, fails the whole
// run; no stage is ever skipped or retried at the pipeline level.
type Pipeline struct {
	name   string
	runner *Runner
	stages []Stage
	opts   []model.PipelineOption
	log    *zap.Logger

	mu     sync.Mutex
	status Status
}

// New creates a pipeline and initialises its options.
func New(name string, runner *Runner, opts ...model.PipelineOption) (*Pipeline, error) {
	if runner == nil {
		runner = NewRunner(nil)
	}

	pipe := &Pipeline{
		name:   name,
		runner: runner,
		opts:   opts,
		log:    runner.log,
	}

	for _, opt := range opts {
		if err := opt.New(); err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// AddStage appends a stage to the run order.
func (p *Pipeline) AddStage(stage Stage) *Pipeline {
	if stage.Concurrent < 1 {
		stage.Concurrent = 1
	}
	p.stages = append(p.stages, stage)

	return p
}

// Status returns the current pipeline status.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.status
}

func (p *Pipeline) setStatus(st Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = st
}

// Run executes the stages strictly in order and waits for the terminal
// state. It returns nil once every stage completed, or the failing stage's
// error after moving the pipeline to StateFailed.
func (p *Pipeline) Run(ctx context.Context) error {
	if len(p.stages) == 0 {
		return ErrNoStages
	}

	start := time.Now()
	parent := model.StartStage

	for _, stage := range p.stages {
		p.setStatus(Status{State: StateRunning, Stage: stage.Name})

		info := &model.StageInfo{Name: stage.Name, Concurrent: stage.Concurrent}
		for _, opt := range p.opts {
			if err := opt.BeforeStage(parent, info); err != nil {
				return errors.Wrap(err, "unable to run before stage function")
			}
		}

		stageStart := time.Now()
		attempts := 0
		_, err := RunStep(ctx, p.runner, stage.Name, stage.Policy, func(ctx context.Context) (struct{}, error) {
			attempts++

			return struct{}{}, stage.Run(ctx)
		})

		for _, opt := range p.opts {
			if optErr := opt.AfterStage(info, attempts, time.Since(stageStart), err); optErr != nil {
				return errors.Wrap(optErr, "unable to run after stage function")
			}
		}

		if err != nil {
			record := &ErrorRecord{
				Stage:    stage.Name,
				Attempts: attempts,
				Cause:    err,
				Context:  map[string]string{"pipeline": p.name},
			}
			p.setStatus(Status{State: StateFailed, Stage: stage.Name, Record: record})
			p.finishRun(time.Since(start))

			return errors.Wrapf(err, "pipeline %s", p.name)
		}

		parent = info
	}

	p.setStatus(Status{State: StateCompleted})

	return p.finishRun(time.Since(start))
}

func (p *Pipeline) finishRun(total time.Duration) error {
	for _, opt := range p.opts {
		if err := opt.Finish(total); err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
