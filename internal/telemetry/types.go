// Telemetry structs and wire schema
package telemetry

import "time"

// Status is the discrete operating status of the facility.
type Status string

// Operating status constants.
const (
	StatusRun   Status = "RUN"
	StatusIdle  Status = "IDLE"
	StatusFault Status = "FAULT"
)

// TypePEM is the only facility model the simulator implements.
const TypePEM = "PEM"

// FacilitySpec describes the simulated facility. It is fixed at startup.
type FacilitySpec struct {
	ID          int
	Type        string
	PressureBar float64 // outlet pressure setpoint
	PurityPct   float64 // hydrogen purity setpoint
}

// DefaultFacility is a 500kW class PEM stack.
var DefaultFacility = FacilitySpec{ID: 1, Type: TypePEM, PressureBar: 30.0, PurityPct: 99.999}

// SignalVector holds the continuous signals monitored on the stack.
type SignalVector struct {
	TempC          float64
	StackPressBar  float64
	OutletPressBar float64
	DCVoltageV     float64
	DCCurrentA     float64
	PurityPct      float64
}

// fields returns pointers to every signal in a fixed order.
func (v *SignalVector) fields() [6]*float64 {
	return [6]*float64{&v.TempC, &v.StackPressBar, &v.OutletPressBar, &v.DCVoltageV, &v.DCCurrentA, &v.PurityPct}
}

// State is the mutable simulation state advanced once per tick.
type State struct {
	Status  Status
	Signals SignalVector
}

// Event is one published telemetry sample.
type Event struct {
	FacilityID     int     `json:"facId"`
	Type           string  `json:"electrolyzerType"`
	Timestamp      string  `json:"ts"`
	Status         Status  `json:"status"`
	StackTempC     float64 `json:"stackTempC"`
	StackPressBar  float64 `json:"stackPressBar"`
	OutletPressBar float64 `json:"outletPressBar"`
	DCVoltageV     float64 `json:"dcVoltageV"`
	DCCurrentA     float64 `json:"dcCurrentA"`
	PurityPct      float64 `json:"purityPct"`
	FaultCode      *string `json:"faultCode"`
}

// KST is the fixed civil offset used for event timestamps.
var KST = time.FixedZone("KST", 9*60*60)

// TimestampLayout renders second precision with a numeric offset.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// FormatTimestamp renders t in KST without fractional seconds.
func FormatTimestamp(t time.Time) string {
	return t.In(KST).Truncate(time.Second).Format(TimestampLayout)
}

// Time parses the event timestamp.
func (e Event) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, e.Timestamp)
}
