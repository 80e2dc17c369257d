package gofanout

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/slok/gofanout/errors"
	"github.com/slok/gofanout/limit"
)

// indexedOutcome is the terminal report of a call task, the index is the
// position of the call on the request call list.
type indexedOutcome struct {
	index   int
	outcome Outcome
}

// callTask runs exactly one upstream call through its lifecycle: wait for a
// permit, invoke, release the permit and report exactly one outcome.
type callTask struct {
	index   int
	call    Call
	limiter limit.Limiter
	grace   time.Duration
	resultC chan<- indexedOutcome
}

func (t *callTask) run(ctx context.Context) {
	// Don't even wait for a permit if the scope already ended.
	select {
	case <-ctx.Done():
		t.report(Outcome{State: OutcomeCanceledBeforeStart, Err: errors.ErrContextCanceled})
		return
	default:
	}

	permit, err := t.limiter.Acquire(ctx)
	if err != nil {
		// The scope ended while waiting for capacity, no permit was
		// consumed and the call never happened.
		t.report(Outcome{State: OutcomeCanceledBeforeStart, Err: errors.ErrContextCanceled})
		return
	}
	// The permit is given back on every exit path, leaking one would starve
	// the whole process capacity. It is released before reporting so the
	// capacity is never retained past the task end.
	defer permit.Release()

	outcome := t.invoke(ctx)

	permit.Release()
	t.report(outcome)
}

func (t *callTask) invoke(ctx context.Context) Outcome {
	type invokeResult struct {
		value any
		err   error
	}

	// The invocation runs apart so the task can unwind on cancellation even
	// if the upstream collaborator misbehaves and ignores the scope. The
	// channel is buffered so a late result doesn't leak the goroutine
	// forever.
	resC := make(chan invokeResult, 1)
	go func() {
		value, err := t.call.Func(ctx)
		resC <- invokeResult{value: value, err: err}
	}()

	select {
	case res := <-resC:
		return t.outcomeFromResult(ctx, res.value, res.err)
	case <-ctx.Done():
		// Prefer a result that raced with the cancellation, a call that
		// genuinely finished while the scope was ending keeps its own
		// terminal state even if its report hadn't landed yet. The wait is
		// bounded by the grace period so a call ignoring the scope can't
		// hold the task forever.
		select {
		case res := <-resC:
			return t.outcomeFromResult(ctx, res.value, res.err)
		case <-time.After(t.grace):
		}

		// The call was in flight when the scope ended, its result is
		// indeterminate and treated as lost, never retried silently.
		return Outcome{State: OutcomeCanceledInFlight, Err: errors.ErrContextCanceled}
	}
}

func (t *callTask) outcomeFromResult(ctx context.Context, value any, err error) Outcome {
	if err == nil {
		return Outcome{State: OutcomeCompleted, Value: value}
	}

	// A call surfacing the termination error of an already ended scope
	// acknowledged the cancellation, that's not a genuine upstream failure.
	if ctx.Err() != nil && stderrors.Is(err, ctx.Err()) {
		return Outcome{State: OutcomeCanceledInFlight, Err: errors.ErrContextCanceled}
	}

	return Outcome{State: OutcomeFailed, Err: errors.NewUpstreamError(t.call.Name, err)}
}

func (t *callTask) report(o Outcome) {
	o.Call = t.call.Name
	// The channel is buffered to the number of calls of the request, a task
	// can always report and finish without blocking.
	t.resultC <- indexedOutcome{index: t.index, outcome: o}
}
