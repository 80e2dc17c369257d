package gofanout_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/gofanout"
	"github.com/slok/gofanout/metrics"
)

// testRecorder is a recorder spy that counts the measurements it receives.
type testRecorder struct {
	id           string
	durations    map[string]int
	callOutcomes map[string]int
	mu           sync.Mutex
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		durations:    map[string]int{},
		callOutcomes: map[string]int{},
	}
}

func (r *testRecorder) WithID(id string) metrics.Recorder {
	r.id = id
	return r
}

func (r *testRecorder) ObserveFanOutDuration(_ time.Time, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations[status]++
}

func (r *testRecorder) IncCallOutcome(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callOutcomes[state]++
}

func (r *testRecorder) SetLimiterInflights(_ int) {}
func (r *testRecorder) IncScopeCancelation(_ string) {}

func TestMeasuredOrchestrator(t *testing.T) {
	assert := assert.New(t)

	rec := newTestRecorder()

	o := gofanout.NewMeasured("catalog", rec, gofanout.New(gofanout.Config{
		Timeout: 200 * time.Millisecond,
	}))

	result, err := o.Run(context.TODO(), gofanout.Request{
		Key: "product-42",
		Calls: []gofanout.Call{
			{Name: "inventory", Func: sleepValue(5*time.Millisecond, "v1")},
			{Name: "pricing", Func: sleepValue(5*time.Millisecond, "v2")},
		},
	})

	assert.NoError(err)
	assert.Equal(gofanout.StatusSuccess, result.Status)

	// The decorator measured the request and the recorder traveled on the
	// context down to the tasks.
	assert.Equal("catalog", rec.id)
	assert.Equal(1, rec.durations[string(gofanout.StatusSuccess)])
	assert.Equal(2, rec.callOutcomes[string(gofanout.OutcomeCompleted)])
}

func TestMeasuredOrchestratorNilRecorder(t *testing.T) {
	assert := assert.New(t)

	// A nil recorder must be safe to use.
	o := gofanout.NewMeasured("catalog", nil, gofanout.New(gofanout.Config{
		Timeout: 200 * time.Millisecond,
	}))

	result, err := o.Run(context.TODO(), gofanout.Request{
		Key: "product-42",
		Calls: []gofanout.Call{
			{Name: "inventory", Func: sleepValue(time.Millisecond, "v1")},
		},
	})

	assert.NoError(err)
	assert.Equal(gofanout.StatusSuccess, result.Status)
}

func TestMiddlewareChain(t *testing.T) {
	assert := assert.New(t)

	// Middlewares decorate the orchestrator from the outside in.
	calls := []string{}
	mw := func(name string) gofanout.Middleware {
		return func(next gofanout.Orchestrator) gofanout.Orchestrator {
			return gofanout.OrchestratorFunc(func(ctx context.Context, req gofanout.Request) (gofanout.Result, error) {
				calls = append(calls, name)
				return next.Run(ctx, req)
			})
		}
	}

	var o gofanout.Orchestrator = gofanout.New(gofanout.Config{Timeout: 100 * time.Millisecond})
	o = mw("inner")(o)
	o = mw("outer")(o)

	_, err := o.Run(context.TODO(), gofanout.Request{Key: "chained"})

	assert.NoError(err)
	assert.Equal([]string{"outer", "inner"}, calls)
}
