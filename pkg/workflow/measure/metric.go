package measure

import (
	"sync"
	"time"
)

type DefaultMetric struct {
	mu          *sync.Mutex
	concurrent  int
	attempts    int
	elapsed     time.Duration
	failed      bool
	endDuration time.Duration
}

func (mt *DefaultMetric) AddRun(attempts int, elapsed time.Duration, failed bool) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.attempts += attempts
	mt.elapsed += elapsed
	mt.failed = mt.failed || failed
}

func (mt *DefaultMetric) Attempts() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.attempts
}

func (mt *DefaultMetric) Elapsed() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return round(mt.elapsed)
}

func (mt *DefaultMetric) Failed() bool {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.failed
}

func (mt *DefaultMetric) SetTotalDuration(total time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.endDuration = total
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.endDuration
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
