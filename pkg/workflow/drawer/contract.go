package drawer

import "github.com/askiada/go-deckbuilder/pkg/workflow/measure"

// Drawer renders the stage graph of a pipeline run.
type Drawer interface {
	AddStage(name string) error
	AddLink(parentName, childName string) error
	AddMeasure(msr measure.Measure) error
	Draw() error
}
