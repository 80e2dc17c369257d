package gofanout

import (
	"github.com/slok/gofanout/errors"
)

// aggregate builds the terminal result of a request from the completed
// outcomes vector and the terminal scope error (nil, ErrTimeout or
// ErrContextCanceled). It's a pure function, no I/O and no blocking,
// applying it twice to the same inputs yields an identical result.
//
// The authoritative cause of a failure is deterministic: among the calls
// that genuinely failed it's the one earliest on the call list, not the
// first one to be scheduled, so near simultaneous failures always resolve
// the same way.
func aggregate(key string, policy FailurePolicy, outcomes []Outcome, scopeErr error) Result {
	result := Result{
		Key:      key,
		Outcomes: outcomes,
	}

	completed := 0
	var firstFailed error
	for _, o := range outcomes {
		if o.State == OutcomeCompleted {
			completed++
			continue
		}
		if o.State == OutcomeFailed && firstFailed == nil {
			firstFailed = o.Err
		}
	}

	// Everything completed, how the scope ended doesn't matter anymore.
	if completed == len(outcomes) {
		result.Status = StatusSuccess
		return result
	}

	// Degraded mode keeps whatever completed as long as there is something
	// to return, the cause is kept as information for the caller.
	if policy == DegradeOnPartial && completed > 0 {
		result.Status = StatusPartialSuccess
		result.Cause = firstFailed
		if result.Cause == nil {
			result.Cause = scopeErr
		}
		return result
	}

	// Deadline expiry observed before any call failure is a timeout, even
	// if some call managed to fail afterwards inside the grace window.
	if scopeErr == errors.ErrTimeout {
		result.Status = StatusTimeout
		result.Cause = errors.ErrTimeout
		return result
	}

	result.Status = StatusFailure
	result.Cause = firstFailed
	if result.Cause == nil {
		// No call failed and no deadline fired, the parent scope was
		// canceled from the outside.
		result.Cause = errors.ErrContextCanceled
	}

	return result
}
