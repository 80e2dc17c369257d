package gofanout

import (
	"context"
	"time"

	"github.com/slok/gofanout/errors"
	"github.com/slok/gofanout/limit"
	"github.com/slok/gofanout/metrics"
)

const (
	defaultTimeout     = 1 * time.Second
	defaultGracePeriod = 1 * time.Second
)

// Config is the configuration of the fan-out orchestrator.
type Config struct {
	// Timeout is the shared deadline of a whole request, every call of the
	// request runs under it, there is no independent per call timeout.
	Timeout time.Duration
	// Limiter is the permit pool bounding the in flight upstream calls.
	// Share one instance between orchestrators to get a process wide bound.
	Limiter limit.Limiter
	// Policy selects between cutting the request short on the first failed
	// call or degrading to the calls that did complete.
	Policy FailurePolicy
	// GracePeriod is the max time the orchestrator keeps waiting, after
	// canceling the scope, for the tasks to acknowledge the cancellation.
	GracePeriod time.Duration
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	if c.Limiter == nil {
		c.Limiter = limit.NewStatic(0)
	}

	if c.Policy == "" {
		c.Policy = FailFast
	}

	if c.GracePeriod <= 0 {
		c.GracePeriod = defaultGracePeriod
	}
}

// New returns a new fan-out Orchestrator. The orchestrator is safe to use
// from any number of concurrent requests, the only state shared between
// them is the configured limiter.
func New(cfg Config) Orchestrator {
	cfg.defaults()

	return &orchestrator{
		cfg: cfg,
	}
}

type orchestrator struct {
	cfg Config
}

// Run satisfies Orchestrator interface.
func (o *orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = o.cfg.Timeout
	}

	// The request scope, every task derives its cancellation from here.
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	metricsRecorder, _ := metrics.RecorderFromContext(ctx)

	// Pre-allocate one slot per call so the outcomes length matches the
	// call list on every terminal status, even for tasks abandoned past the
	// grace period.
	outcomes := make([]Outcome, len(req.Calls))
	for i, call := range req.Calls {
		outcomes[i] = Outcome{
			Call:  call.Name,
			State: OutcomeCanceledBeforeStart,
			Err:   errors.ErrContextCanceled,
		}
	}

	// Buffered to the number of calls so a task can always report its
	// terminal outcome and release its permit without anyone listening.
	resultC := make(chan indexedOutcome, len(req.Calls))
	for i, call := range req.Calls {
		t := &callTask{
			index:   i,
			call:    call,
			limiter: o.cfg.Limiter,
			grace:   o.cfg.GracePeriod,
			resultC: resultC,
		}
		go t.run(ctx)
	}

	var (
		scopeErr        error
		failureCanceled bool
		graceC          <-chan time.Time
	)

	// Only the orchestrator cancels the scope and it does it exactly once,
	// on the first fatal signal it observes. Everything after that is just
	// collecting acknowledgements inside the grace window.
	done := ctx.Done()
	completed := 0
wait:
	for completed < len(req.Calls) {
		select {
		case res := <-resultC:
			outcomes[res.index] = res.outcome
			completed++
			metricsRecorder.IncCallOutcome(string(res.outcome.State))

			if res.outcome.State == OutcomeFailed && o.cfg.Policy == FailFast && graceC == nil {
				cancel()
				failureCanceled = true
				metricsRecorder.IncScopeCancelation("failure")
				graceC = time.After(o.cfg.GracePeriod)
			}
		case <-done:
			// The scope ended on its own: deadline expiry or a parent
			// cancellation. Don't select on the closed channel again.
			done = nil
			if graceC == nil {
				if ctx.Err() == context.DeadlineExceeded {
					scopeErr = errors.ErrTimeout
					metricsRecorder.IncScopeCancelation("deadline")
				} else {
					scopeErr = errors.ErrContextCanceled
					metricsRecorder.IncScopeCancelation("parent")
				}
				graceC = time.After(o.cfg.GracePeriod)
			}
		case <-graceC:
			// Some task didn't acknowledge the cancellation in time, its
			// slot keeps the canceled placeholder and the late report will
			// land on the buffered channel and be dropped with it.
			break wait
		}
	}

	// The tasks may drain their cancellation acknowledgements before the
	// scope end is ever selected, classify the scope anyway so a timed out
	// request is never mislabeled.
	if scopeErr == nil && !failureCanceled {
		switch ctx.Err() {
		case context.DeadlineExceeded:
			scopeErr = errors.ErrTimeout
		case context.Canceled:
			scopeErr = errors.ErrContextCanceled
		}
	}

	result := aggregate(req.Key, o.cfg.Policy, outcomes, scopeErr)

	switch result.Status {
	case StatusSuccess, StatusPartialSuccess:
		return result, nil
	default:
		return result, result.Cause
	}
}
