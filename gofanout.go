package gofanout

import (
	"context"
	"time"
)

// Func is the upstream call to execute inside the fan-out. It receives the
// request scope and must honor its cancellation, stopping any wait on I/O
// promptly when the scope ends.
type Func func(ctx context.Context) (any, error)

// Call describes one named upstream call of a request, the name identifies
// the upstream kind (inventory, pricing, reviews...) and is the one carried
// by the errors and the outcomes of the call.
type Call struct {
	Name string
	Func Func
}

// Request is a logical request that fans out to a set of independent
// upstream calls sharing a single deadline. It is immutable for the
// orchestrator, the calls are only invoked, never mutated.
type Request struct {
	// Key is the opaque key of the request (e.g. an entity id).
	Key string
	// Timeout overrides the orchestrator timeout for this request, when it
	// is zero the configured one is used.
	Timeout time.Duration
	// Calls is the ordered list of upstream calls to perform, the outcomes
	// of the result preserve this order.
	Calls []Call
}

// OutcomeState is the terminal state of a single upstream call.
type OutcomeState string

const (
	// OutcomeCompleted means the call returned a value.
	OutcomeCompleted OutcomeState = "completed"
	// OutcomeFailed means the call itself returned an error.
	OutcomeFailed OutcomeState = "failed"
	// OutcomeCanceledBeforeStart means the scope ended before the call was
	// issued, no upstream ever saw it.
	OutcomeCanceledBeforeStart OutcomeState = "canceled-before-start"
	// OutcomeCanceledInFlight means the scope ended with the call in
	// flight, its result is indeterminate and is treated as lost.
	OutcomeCanceledInFlight OutcomeState = "canceled-in-flight"
)

// Outcome is the result slot of one upstream call. Exactly one outcome
// exists per call of a request, at the same position the call had on the
// request call list.
type Outcome struct {
	// Call is the name of the call this outcome belongs to.
	Call string
	// State is the terminal state of the call.
	State OutcomeState
	// Value is the value returned by the call, only set on completed state.
	Value any
	// Err is the error of the call for every non completed state.
	Err error
}

// Status is the overall terminal status of a fan-out request.
type Status string

const (
	// StatusSuccess means every call completed with a value.
	StatusSuccess Status = "success"
	// StatusFailure means a call failed and the request was cut short, the
	// result carries the authoritative cause.
	StatusFailure Status = "failure"
	// StatusTimeout means the request deadline expired before every call
	// completed.
	StatusTimeout Status = "timeout"
	// StatusPartialSuccess means some calls completed and some didn't, only
	// returned under the degrade-on-partial policy.
	StatusPartialSuccess Status = "partial-success"
)

// FailurePolicy selects what the orchestrator does when only a part of the
// calls of a request succeed.
type FailurePolicy string

const (
	// FailFast cancels every sibling call on the first failure and discards
	// any partial value.
	FailFast FailurePolicy = "fail-fast"
	// DegradeOnPartial lets the remaining calls run to the deadline and
	// returns whatever completed.
	DegradeOnPartial FailurePolicy = "degrade-on-partial"
)

// Result is the aggregate result of a fan-out request.
type Result struct {
	// Key is the key of the originating request.
	Key string
	// Status is the overall terminal status, there is exactly one.
	Status Status
	// Outcomes has one slot per call of the request, in call list order,
	// whatever the completion order was.
	Outcomes []Outcome
	// Cause is the authoritative error of the request for the non success
	// statuses. On ties it is the failed call earliest on the call list,
	// not the first one to be scheduled.
	Cause error
}

// Orchestrator knows how to run a fan-out request: issue every call
// concurrently under a shared deadline and a shared concurrency limiter,
// cancel the siblings on the first fatal signal and aggregate the outcomes.
type Orchestrator interface {
	// Run will run the request and block until it reaches a terminal
	// status. It never lets a task cancellation escape, the returned error
	// mirrors the result cause and is nil on success and partial success.
	Run(ctx context.Context, req Request) (Result, error)
}

// OrchestratorFunc is a helper to satisfy Orchestrator with a function.
type OrchestratorFunc func(ctx context.Context, req Request) (Result, error)

// Run satisfies Orchestrator interface.
func (o OrchestratorFunc) Run(ctx context.Context, req Request) (Result, error) {
	return o(ctx, req)
}

// Middleware is a decorator of orchestrators, used to stack cross cutting
// behavior (measuring, retries, breakers...) outside of the core.
type Middleware func(Orchestrator) Orchestrator
