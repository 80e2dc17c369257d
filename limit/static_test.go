package limit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	gferrors "github.com/slok/gofanout/errors"
	"github.com/slok/gofanout/limit"
	"github.com/slok/gofanout/metrics"
)

// inflightRecorder is a recorder spy keeping the last in flight permits
// measurement it received.
type inflightRecorder struct {
	metrics.Recorder
	last int
	mu   sync.Mutex
}

func (r *inflightRecorder) SetLimiterInflights(quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = quantity
}

func (r *inflightRecorder) current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func TestStaticBoundsConcurrency(t *testing.T) {
	assert := assert.New(t)

	const capacity = 3

	limiter := limit.NewStatic(capacity)

	var mu sync.Mutex
	inflight := 0
	peak := 0

	var wg sync.WaitGroup
	wg.Add(25)
	for i := 0; i < 25; i++ {
		go func() {
			defer wg.Done()

			permit, err := limiter.Acquire(context.TODO())
			if !assert.NoError(err) {
				return
			}
			defer permit.Release()

			mu.Lock()
			inflight++
			if inflight > peak {
				peak = inflight
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			inflight--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(peak, capacity)
	assert.Equal(0, inflight)
}

func TestStaticAcquireCanceled(t *testing.T) {
	assert := assert.New(t)

	limiter := limit.NewStatic(1)

	// Hold the only permit so the next acquisition has to wait.
	held, err := limiter.Acquire(context.TODO())
	assert.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = limiter.Acquire(ctx)
	assert.Equal(context.DeadlineExceeded, err)

	// A cut wait consumed no capacity, releasing the held permit must leave
	// the pool usable again.
	held.Release()
	permit, err := limiter.TryAcquire(context.TODO())
	assert.NoError(err)
	permit.Release()
}

func TestStaticTryAcquireRejects(t *testing.T) {
	assert := assert.New(t)

	limiter := limit.NewStatic(1)

	permit, err := limiter.TryAcquire(context.TODO())
	assert.NoError(err)

	_, err = limiter.TryAcquire(context.TODO())
	assert.Equal(gferrors.ErrRejectedExecution, err)

	permit.Release()

	permit, err = limiter.TryAcquire(context.TODO())
	assert.NoError(err)
	permit.Release()
}

func TestStaticReleaseIdempotent(t *testing.T) {
	assert := assert.New(t)

	limiter := limit.NewStatic(1)

	permit, err := limiter.Acquire(context.TODO())
	assert.NoError(err)

	// Releasing the same permit on more than one exit path must return the
	// capacity only once, otherwise the pool would grow past its size.
	permit.Release()
	permit.Release()

	first, err := limiter.TryAcquire(context.TODO())
	assert.NoError(err)

	_, err = limiter.TryAcquire(context.TODO())
	assert.Equal(gferrors.ErrRejectedExecution, err)

	first.Release()
}

func TestStaticInflightsMeasured(t *testing.T) {
	assert := assert.New(t)

	rec := &inflightRecorder{Recorder: metrics.Dummy}
	ctx := metrics.SetRecorderOnContext(context.TODO(), rec)

	limiter := limit.NewStatic(2)

	// Both acquisition variants keep the in flight permits gauge in sync,
	// also when they are mixed on the same pool.
	tried, err := limiter.TryAcquire(ctx)
	assert.NoError(err)
	assert.Equal(1, rec.current())

	acquired, err := limiter.Acquire(ctx)
	assert.NoError(err)
	assert.Equal(2, rec.current())

	tried.Release()
	assert.Equal(1, rec.current())

	acquired.Release()
	assert.Equal(0, rec.current())
}

func TestStaticDefaultCapacity(t *testing.T) {
	assert := assert.New(t)

	limiter := limit.NewStatic(0)

	// The default capacity is 10 permits.
	permits := []limit.Permit{}
	for i := 0; i < 10; i++ {
		permit, err := limiter.TryAcquire(context.TODO())
		assert.NoError(err)
		permits = append(permits, permit)
	}

	_, err := limiter.TryAcquire(context.TODO())
	assert.Equal(gferrors.ErrRejectedExecution, err)

	for _, permit := range permits {
		permit.Release()
	}
}
