package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout will be used when the request deadline expires before
	// every upstream call reached a terminal state.
	ErrTimeout = errors.New("deadline exceeded while waiting for upstream calls")
	// ErrContextCanceled will be used when the request scope has been
	// canceled from the outside before the fan-out completed.
	ErrContextCanceled = errors.New("context canceled, fan-out not completed")
	// ErrRejectedExecution will be used by non blocking limiters when there
	// is no free permit at the moment of the acquisition.
	ErrRejectedExecution = errors.New("no free permits, execution rejected")
)

// UpstreamError is the error returned by an upstream call, it carries the
// name of the call that originated it so the failure cause of a request can
// be traced back to a concrete upstream.
type UpstreamError struct {
	// Call is the name of the upstream call that failed.
	Call string
	// Err is the original error returned by the upstream.
	Err error
}

// NewUpstreamError wraps the error returned by the named upstream call.
func NewUpstreamError(call string, err error) *UpstreamError {
	return &UpstreamError{
		Call: call,
		Err:  err,
	}
}

// Error satisfies error interface.
func (u *UpstreamError) Error() string {
	return fmt.Sprintf("upstream call %q failed: %v", u.Call, u.Err)
}

// Unwrap returns the original upstream error.
func (u *UpstreamError) Unwrap() error {
	return u.Err
}
