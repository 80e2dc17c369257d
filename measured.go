package gofanout

import (
	"context"
	"time"

	"github.com/slok/gofanout/metrics"
)

// NewMeasured is a decorator that will measure the requests run through the
// received orchestrator, identified by the id, and will set the recorder on
// the request context so the tasks and the limiter can measure too.
func NewMeasured(id string, rec metrics.Recorder, next Orchestrator) Orchestrator {
	if rec == nil {
		rec = metrics.Dummy
	}
	rec = rec.WithID(id)

	return OrchestratorFunc(func(ctx context.Context, req Request) (result Result, err error) {
		defer func(start time.Time) {
			rec.ObserveFanOutDuration(start, string(result.Status))
		}(time.Now())

		// Set the recorder.
		ctx = metrics.SetRecorderOnContext(ctx, rec)

		result, err = next.Run(ctx, req)

		return result, err
	})
}
