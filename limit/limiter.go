package limit

import (
	"context"
)

// Permit represents one unit of the shared upstream call capacity. It is
// handed out by a Limiter before a call starts and must be given back when
// the call ends, whatever the exit path was (success, error or cancellation).
type Permit interface {
	// Release returns the permit to the pool. It is safe to call it more
	// than once, only the first call will return capacity.
	Release()
}

// Limiter knows how to bound the number of upstream calls that can be in
// flight at the same time. The limiter is shared by every request passing
// through the orchestrators it has been injected on, this is what protects
// the upstreams from a burst of concurrent logical requests and not only
// from the fan-out of a single one.
type Limiter interface {
	// Acquire blocks until a permit is free or the context ends, whatever
	// comes first. On context cancellation or expiration it returns the
	// context error without having consumed any capacity.
	Acquire(ctx context.Context) (Permit, error)
	// TryAcquire is the non blocking variant of Acquire, when there is no
	// free permit it returns errors.ErrRejectedExecution instead of
	// waiting. The context is only used to measure, never to wait.
	TryAcquire(ctx context.Context) (Permit, error)
}
