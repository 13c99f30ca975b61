package measure

import "time"

// Measure collects per-stage metrics over one pipeline run.
type Measure interface {
	AddMetric(name string, concurrent int) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the outcome of a single stage.
type Metric interface {
	AddRun(attempts int, elapsed time.Duration, failed bool)
	Attempts() int
	Elapsed() time.Duration
	Failed() bool
	SetTotalDuration(total time.Duration)
	GetTotalDuration() time.Duration
}
