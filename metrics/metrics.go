package metrics

import (
	"context"
	"time"
)

// Recorder knows how to measure the different kind of metrics of a fan-out
// execution.
type Recorder interface {
	// WithID will set the ID name to the recorder and every metric
	// measured with the obtained recorder will be identified with
	// the name.
	WithID(id string) Recorder
	// ObserveFanOutDuration will measure the duration of a whole fan-out
	// request identified by its terminal status.
	ObserveFanOutDuration(start time.Time, status string)
	// IncCallOutcome increments the number of upstream call outcomes by
	// terminal state.
	IncCallOutcome(state string)
	// SetLimiterInflights sets the current number of permits being held on
	// the concurrency limiter.
	SetLimiterInflights(quantity int)
	// IncScopeCancelation increments the number of request scope
	// cancelations by the kind of signal that triggered them.
	IncScopeCancelation(kind string)
}

// Dummy is a recorder that doesn't record anything, it's safe to use when
// there is no real recorder available.
var Dummy Recorder = &dummy{}

type dummy struct{}

func (d *dummy) WithID(_ string) Recorder                  { return d }
func (*dummy) ObserveFanOutDuration(_ time.Time, _ string) {}
func (*dummy) IncCallOutcome(_ string)                     {}
func (*dummy) SetLimiterInflights(_ int)                   {}
func (*dummy) IncScopeCancelation(_ string)                {}

var ctxRecorderKey contextKey = "recorder"

type contextKey string

func (c contextKey) String() string {
	return "metrics-ctx-key" + string(c)
}

// RecorderFromContext will get the metrics recorder from the context.
// If there is no recorder on the context it will return also a dummy
// recorder that is safe to use.
func RecorderFromContext(ctx context.Context) (recorder Recorder, ok bool) {
	rec, ok := ctx.Value(ctxRecorderKey).(Recorder)

	if !ok {
		return Dummy, false
	}

	return rec, true
}

// SetRecorderOnContext returns a copy of the context carrying the recorder
// so the components down the execution path can measure on it.
func SetRecorderOnContext(ctx context.Context, r Recorder) context.Context {
	return context.WithValue(ctx, ctxRecorderKey, r)
}
