package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-deckbuilder/pkg/workflow/measure"
	"github.com/askiada/go-deckbuilder/pkg/workflow/model"
)

// PipelineDrawer adapts a Drawer into a pipeline option. When a measure is
// attached, the rendered graph carries stage durations and heat colours.
type PipelineDrawer struct {
	drawer  Drawer
	measure measure.Measure
	last    string
}

// NewPipelineDrawer draws the run into fileName. msr may be nil.
func NewPipelineDrawer(fileName string, msr measure.Measure) *PipelineDrawer {
	return &PipelineDrawer{drawer: NewDOTDrawer(fileName), measure: msr}
}

func (p *PipelineDrawer) New() error {
	if err := p.drawer.AddStage(model.StartStage.Name); err != nil {
		return err
	}
	p.last = model.StartStage.Name

	return p.drawer.AddStage(model.EndStage.Name)
}

func (p *PipelineDrawer) BeforeStage(parent, stage *model.StageInfo) error {
	if err := p.drawer.AddStage(stage.Name); err != nil {
		return err
	}
	if err := p.drawer.AddLink(parent.Name, stage.Name); err != nil {
		return err
	}
	p.last = stage.Name

	return nil
}

func (p *PipelineDrawer) AfterStage(*model.StageInfo, int, time.Duration, error) error {
	return nil
}

func (p *PipelineDrawer) Finish(time.Duration) error {
	if err := p.drawer.AddLink(p.last, model.EndStage.Name); err != nil {
		return err
	}
	if p.measure != nil {
		if err := p.drawer.AddMeasure(p.measure); err != nil {
			return errors.Wrap(err, "unable to add measure to drawer")
		}
	}

	return p.drawer.Draw()
}

var _ model.PipelineOption = (*PipelineDrawer)(nil)
