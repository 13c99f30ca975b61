// Package measure records per-stage attempt counts and durations for a
// pipeline run, for reporting and for the drawer's heat colouring.
package measure

import "sync"

type DefaultMeasure struct {
	mu     sync.Mutex
	Stages map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Stages: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string, concurrent int) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt := &DefaultMetric{
		mu:         &sync.Mutex{},
		concurrent: concurrent,
	}
	m.Stages[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Stages[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Metric, len(m.Stages))
	for name, mt := range m.Stages {
		out[name] = mt
	}

	return out
}

var _ Measure = (*DefaultMeasure)(nil)
