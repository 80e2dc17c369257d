package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	promNamespace = "gofanout"

	promRequestSubsystem = "request"
	promCallSubsystem    = "call"
	promLimitSubsystem   = "limit"
	promScopeSubsystem   = "scope"
)

type prometheusRec struct {
	// Metrics.
	fanOutDuration    *prometheus.HistogramVec
	callOutcomes      *prometheus.CounterVec
	limiterInflights  *prometheus.GaugeVec
	scopeCancelations *prometheus.CounterVec

	id  string
	reg prometheus.Registerer
}

// NewPrometheusRecorder returns a new Recorder that knows how to measure
// using Prometheus kind metrics.
func NewPrometheusRecorder(reg prometheus.Registerer) Recorder {
	p := &prometheusRec{
		reg: reg,
	}

	p.registerMetrics()
	return p
}

func (p prometheusRec) WithID(id string) Recorder {
	return &prometheusRec{
		fanOutDuration:    p.fanOutDuration,
		callOutcomes:      p.callOutcomes,
		limiterInflights:  p.limiterInflights,
		scopeCancelations: p.scopeCancelations,

		id:  id,
		reg: p.reg,
	}
}

func (p *prometheusRec) registerMetrics() {
	p.fanOutDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promRequestSubsystem,
		Name:      "duration_seconds",
		Help:      "The duration of the whole fan-out request in seconds.",
	}, []string{"id", "status"})

	p.callOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promCallSubsystem,
		Name:      "outcomes_total",
		Help:      "Total number of upstream call outcomes by terminal state.",
	}, []string{"id", "state"})

	p.limiterInflights = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Subsystem: promLimitSubsystem,
		Name:      "inflight_permits",
		Help:      "The number of permits currently held on the concurrency limiter.",
	}, []string{"id"})

	p.scopeCancelations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promScopeSubsystem,
		Name:      "cancelations_total",
		Help:      "Total number of request scope cancelations by trigger kind.",
	}, []string{"id", "kind"})

	p.reg.MustRegister(
		p.fanOutDuration,
		p.callOutcomes,
		p.limiterInflights,
		p.scopeCancelations,
	)
}

// ObserveFanOutDuration satisfies Recorder interface.
func (p prometheusRec) ObserveFanOutDuration(start time.Time, status string) {
	secs := time.Since(start).Seconds()
	p.fanOutDuration.WithLabelValues(p.id, status).Observe(secs)
}

// IncCallOutcome satisfies Recorder interface.
func (p prometheusRec) IncCallOutcome(state string) {
	p.callOutcomes.WithLabelValues(p.id, state).Inc()
}

// SetLimiterInflights satisfies Recorder interface.
func (p prometheusRec) SetLimiterInflights(quantity int) {
	p.limiterInflights.WithLabelValues(p.id).Set(float64(quantity))
}

// IncScopeCancelation satisfies Recorder interface.
func (p prometheusRec) IncScopeCancelation(kind string) {
	p.scopeCancelations.WithLabelValues(p.id, kind).Inc()
}
