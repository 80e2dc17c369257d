package limit

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/slok/gofanout/errors"
	"github.com/slok/gofanout/metrics"
)

const defaultCapacity = 10

// static is a fixed capacity limiter backed by a weighted semaphore. It
// isn't adaptive, the pool size is set on creation and never changes.
type static struct {
	sem       *semaphore.Weighted
	inflights atomicCounter
}

// NewStatic returns a new static Limiter with the received capacity. The
// capacity is process wide for every orchestrator sharing the instance, use
// a capacity lower than 1 to get the default one.
func NewStatic(capacity int) Limiter {
	if capacity < 1 {
		capacity = defaultCapacity
	}

	return &static{
		sem: semaphore.NewWeighted(int64(capacity)),
	}
}

// Acquire satisfies Limiter interface.
func (s *static) Acquire(ctx context.Context) (Permit, error) {
	metricsRecorder, _ := metrics.RecorderFromContext(ctx)

	// The semaphore returns the context error when the wait is cut, in that
	// case no capacity has been consumed and there is nothing to release.
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	metricsRecorder.SetLimiterInflights(s.inflights.Inc())

	return s.newPermit(metricsRecorder), nil
}

// TryAcquire satisfies Limiter interface.
func (s *static) TryAcquire(ctx context.Context) (Permit, error) {
	metricsRecorder, _ := metrics.RecorderFromContext(ctx)

	if !s.sem.TryAcquire(1) {
		return nil, errors.ErrRejectedExecution
	}

	metricsRecorder.SetLimiterInflights(s.inflights.Inc())

	return s.newPermit(metricsRecorder), nil
}

func (s *static) newPermit(rec metrics.Recorder) Permit {
	return &permit{
		release: func() {
			rec.SetLimiterInflights(s.inflights.Dec())
			s.sem.Release(1)
		},
	}
}

// permit guards the release with a once so a permit released on more than
// one exit path can't corrupt the pool capacity.
type permit struct {
	release func()
	once    sync.Once
}

// Release satisfies Permit interface.
func (p *permit) Release() {
	p.once.Do(p.release)
}

type atomicCounter struct {
	c  int
	mu sync.Mutex
}

func (a *atomicCounter) Inc() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.c++
	return a.c
}

func (a *atomicCounter) Dec() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.c--
	return a.c
}
