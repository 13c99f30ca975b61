package model

import "time"

// PipelineOption is the observer interface for pipeline runs. Options are
// attached when a pipeline is constructed and receive every stage
// transition.
type PipelineOption interface {
	// New initialises the option before the run starts.
	New() error
	// BeforeStage runs before a stage executes, with its predecessor.
	BeforeStage(parent, stage *StageInfo) error
	// AfterStage runs once a stage settles, successfully or not, with the
	// number of attempts the step runner spent on it.
	AfterStage(stage *StageInfo, attempts int, elapsed time.Duration, stageErr error) error
	// Finish runs after the pipeline reaches a terminal state.
	Finish(total time.Duration) error
}
