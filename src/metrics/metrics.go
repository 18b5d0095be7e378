// Package metrics wires the buffer pool's and hash table's counters and
// gauges through github.com/hashicorp/go-metrics, promoted here from a
// transitive dependency of the teacher's (now-dropped) raft stack into a
// direct dependency of the buffer pool's own instrumentation.
package metrics

import (
	"time"

	gometrics "github.com/hashicorp/go-metrics"
)

// Sink is the instrumentation seam the buffer pool and hash table report
// through. Production code wires a *gometrics.Metrics; tests can supply any
// implementation, including one backed by gometrics.NewInmemSink for
// assertions on emitted values.
type Sink interface {
	IncrCounter(key []string, val float32)
	SetGauge(key []string, val float32)
}

// goMetricsSink adapts a *gometrics.Metrics to Sink.
type goMetricsSink struct {
	m *gometrics.Metrics
}

// New constructs a Sink backed by an in-memory go-metrics sink, suitable
// for embedding in a long-running process or for tests that want to
// assert on counter values through the returned InmemSink's Data. go-metrics
// prefixes every key with serviceName, so a counter emitted as
// bufferpool.hit is recorded as <serviceName>.bufferpool.hit.
func New(serviceName string) (Sink, *gometrics.InmemSink) {
	inmem := gometrics.NewInmemSink(time.Second, time.Minute)

	cfg := gometrics.DefaultConfig(serviceName)
	cfg.EnableHostname = false
	cfg.EnableRuntimeMetrics = false

	m, err := gometrics.New(cfg, inmem)
	if err != nil {
		// DefaultConfig+InmemSink never actually fails to construct; fall
		// back to the package-global instance rather than propagating a
		// constructor error through every caller of metrics.New.
		m = gometrics.Default()
	}

	return &goMetricsSink{m: m}, inmem
}

func (s *goMetricsSink) IncrCounter(key []string, val float32) {
	s.m.IncrCounter(key, val)
}

func (s *goMetricsSink) SetGauge(key []string, val float32) {
	s.m.SetGauge(key, val)
}

// Nop discards every metric; used where a caller doesn't care about
// instrumentation (most unit tests).
type Nop struct{}

var _ Sink = Nop{}

func (Nop) IncrCounter([]string, float32) {}
func (Nop) SetGauge([]string, float32)    {}
