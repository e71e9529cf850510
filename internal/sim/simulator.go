// Simulator driving the facility model and handing events to writers
package sim

import (
	"math/rand"
	"sync"
	"time"

	"electrolyzer-sim/internal/config"
	"electrolyzer-sim/internal/metrics"
	"electrolyzer-sim/internal/telemetry"
)

// EventWriter is an interface to support different event sinks.
type EventWriter interface {
	Write(telemetry.Event) error
}

// Simulator owns the simulation state and produces one event per tick.
// It is the only writer of that state.
type Simulator struct {
	spec         telemetry.FacilitySpec
	gen          *telemetry.Generator
	writer       EventWriter
	tickInterval time.Duration
	metrics      *metrics.Metrics

	mu    sync.Mutex
	state telemetry.State
	last  *telemetry.Event
}

// NewSimulator builds a simulator from cfg. A nil rnd seeds a new source
// from the clock; a nil now defaults to time.Now.
func NewSimulator(cfg *config.Config, writer EventWriter, rnd telemetry.Rand, now func() time.Time) *Simulator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	spec := cfg.Spec()
	gen := telemetry.NewGenerator(spec, cfg.Kappa, cfg.FaultCodes, rnd, now)
	return &Simulator{
		spec:         spec,
		gen:          gen,
		writer:       writer,
		tickInterval: cfg.TickInterval(),
		state:        gen.InitialState(),
	}
}

// SetMetrics attaches Prometheus collectors.
func (s *Simulator) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// TickInterval returns the configured tick period.
func (s *Simulator) TickInterval() time.Duration {
	return s.tickInterval
}

// Spec returns the simulated facility.
func (s *Simulator) Spec() telemetry.FacilitySpec {
	return s.spec
}

// State returns a copy of the current simulation state.
func (s *Simulator) State() telemetry.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the most recent event, if any tick has run.
func (s *Simulator) Snapshot() (telemetry.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return telemetry.Event{}, false
	}
	return *s.last, true
}
