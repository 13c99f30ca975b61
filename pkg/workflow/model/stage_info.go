package model

// StageInfo describes one stage of a pipeline for observers. Concurrent is
// the fan-out bound of the stage, 1 for purely sequential stages.
type StageInfo struct {
	Name       string
	Concurrent int
}

// Synthetic stages bounding every run in the stage graph.
var (
	StartStage = &StageInfo{Name: "start", Concurrent: 1}
	EndStage   = &StageInfo{Name: "end", Concurrent: 1}
)
