package measure

import (
	"time"

	"github.com/askiada/go-deckbuilder/pkg/workflow/model"
)

// PipelineMeasure adapts a Measure into a pipeline option.
type PipelineMeasure struct {
	measure Measure
}

func NewPipelineMeasure(msr Measure) *PipelineMeasure {
	if msr == nil {
		msr = NewDefaultMeasure()
	}

	return &PipelineMeasure{measure: msr}
}

// Measure exposes the collected metrics once the run finished.
func (p *PipelineMeasure) Measure() Measure { return p.measure }

func (p *PipelineMeasure) New() error { return nil }

func (p *PipelineMeasure) BeforeStage(_, stage *model.StageInfo) error {
	p.measure.AddMetric(stage.Name, stage.Concurrent)

	return nil
}

func (p *PipelineMeasure) AfterStage(stage *model.StageInfo, attempts int, elapsed time.Duration, stageErr error) error {
	if mt := p.measure.GetMetric(stage.Name); mt != nil {
		mt.AddRun(attempts, elapsed, stageErr != nil)
	}

	return nil
}

func (p *PipelineMeasure) Finish(total time.Duration) error {
	for _, mt := range p.measure.AllMetrics() {
		mt.SetTotalDuration(total)
	}

	return nil
}

var _ model.PipelineOption = (*PipelineMeasure)(nil)
