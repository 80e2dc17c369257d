// Package gofanout implements a bounded, cancellable fan-out of upstream
// calls: one logical request consults several independent upstreams at the
// same time, under one shared deadline and one shared concurrency bound.
//
// The implementation is based on 4 components:
//
// - The Limiter: a permit pool shared process wide that bounds the total
//   number of in flight upstream calls, whatever the number of logical
//   requests is. A call waits for a permit before being issued and gives it
//   back on every exit path.
//
// - The call task: the unit of work wrapping exactly one upstream call. It
//   goes through a small lifecycle (waiting for a permit, invoking,
//   terminal) and reports exactly one outcome. A task never retries, retry
//   policy belongs to the upstream collaborator layer.
//
// - The Orchestrator: the only entry point of the library. It creates the
//   request scope from the configured timeout, starts one task per call and
//   waits for the joint completion or for the first fatal signal. It is also
//   the only entity allowed to cancel the scope and does it exactly once,
//   first-error-wins: the errors of the siblings canceled afterwards are
//   never the cause of the request.
//
// - The aggregation: a pure function folding the outcomes vector and the
//   terminal scope state into a single result with exactly one overall
//   status (success, failure, timeout or partial success). The outcomes keep
//   the call list order whatever the completion order was.
//
// Upstream collaborators are plugged with a plain function receiving the
// request scope, they must honor its cancellation, the library can't cut an
// I/O wait on their behalf.
package gofanout
