package telemetry

import (
	"math"
	"time"
)

// DefaultFaultCodes are reported while the facility is in FAULT.
var DefaultFaultCodes = []string{"E101", "E217", "E503"}

// Generator simulates telemetry for a single facility.
type Generator struct {
	Spec       FacilitySpec
	FaultCodes []string
	stepper    *Stepper
	rand       Rand
	now        func() time.Time
}

// NewGenerator creates a telemetry generator. A nil now defaults to time.Now
// and an empty faultCodes list to DefaultFaultCodes.
func NewGenerator(spec FacilitySpec, kappa float64, faultCodes []string, rnd Rand, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	if len(faultCodes) == 0 {
		faultCodes = DefaultFaultCodes
	}
	return &Generator{
		Spec:       spec,
		FaultCodes: faultCodes,
		stepper:    NewStepper(kappa, rnd),
		rand:       rnd,
		now:        now,
	}
}

// Stepper exposes the signal stepper so callers can tune noise.
func (g *Generator) Stepper() *Stepper {
	return g.stepper
}

// InitialState returns the RUN status with signals settled on their RUN targets.
func (g *Generator) InitialState() State {
	return State{Status: StatusRun, Signals: TargetsFor(g.Spec.Type, StatusRun, g.Spec)}
}

// GenerateTelemetry advances st by one tick and returns the event describing it.
func (g *Generator) GenerateTelemetry(st *State) Event {
	// Rare status transition
	st.Status = NextStatus(st.Status, g.rand)
	target := TargetsFor(g.Spec.Type, st.Status, g.Spec)

	// Gentle step toward the target, then saturate
	st.Signals = Clamp(g.stepper.Step(st.Signals, target))

	return Event{
		FacilityID:     g.Spec.ID,
		Type:           g.Spec.Type,
		Timestamp:      FormatTimestamp(g.now()),
		Status:         st.Status,
		StackTempC:     round(st.Signals.TempC, 2),
		StackPressBar:  round(st.Signals.StackPressBar, 2),
		OutletPressBar: round(st.Signals.OutletPressBar, 2),
		DCVoltageV:     round(st.Signals.DCVoltageV, 2),
		DCCurrentA:     round(st.Signals.DCCurrentA, 2),
		PurityPct:      round(st.Signals.PurityPct, 6),
		FaultCode:      g.faultCode(st.Status),
	}
}

// faultCode picks a code only while faulted.
func (g *Generator) faultCode(status Status) *string {
	if status != StatusFault {
		return nil
	}
	code := g.FaultCodes[g.rand.Intn(len(g.FaultCodes))]
	return &code
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
