package telemetry

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"
	"time"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 1, 23, 30, 15, 987654321, time.UTC) }

func TestGenerateTelemetry(t *testing.T) {
	gen := NewGenerator(DefaultFacility, DefaultKappa, DefaultFaultCodes, fixedRand{f: 0.5}, fixedNow)
	st := gen.InitialState()

	ev := gen.GenerateTelemetry(&st)

	if ev.FacilityID != 1 || ev.Type != TypePEM {
		t.Errorf("unexpected identity: %+v", ev)
	}
	if ev.Status != StatusRun || st.Status != StatusRun {
		t.Errorf("expected RUN, got event=%s state=%s", ev.Status, st.Status)
	}
	if ev.Timestamp != "2025-03-02T08:30:15+09:00" {
		t.Errorf("unexpected timestamp %s", ev.Timestamp)
	}
	if ev.StackTempC != 68 || ev.DCCurrentA != 1250 || ev.PurityPct != 99.999 {
		t.Errorf("settled state should stay on target: %+v", ev)
	}
	if ev.FaultCode != nil {
		t.Errorf("expected no fault code while running, got %q", *ev.FaultCode)
	}
}

func TestGenerateTelemetryRounding(t *testing.T) {
	gen := NewGenerator(DefaultFacility, 0, nil, fixedRand{f: 0.5}, fixedNow)
	st := State{Status: StatusRun, Signals: SignalVector{
		TempC: 61.23456, StackPressBar: 29.995, OutletPressBar: 30.001, DCVoltageV: 399.129,
		DCCurrentA: 1249.987, PurityPct: 99.99912345,
	}}
	ev := gen.GenerateTelemetry(&st)
	if ev.StackTempC != 61.23 || ev.DCVoltageV != 399.13 || ev.DCCurrentA != 1249.99 {
		t.Errorf("physical signals not rounded to 2 places: %+v", ev)
	}
	if ev.PurityPct != 99.999123 {
		t.Errorf("purity not rounded to 6 places: %v", ev.PurityPct)
	}
	if st.Signals.TempC != 61.23456 {
		t.Errorf("state should keep full precision, got %v", st.Signals.TempC)
	}
}

func TestFaultCodeOnlyWhileFaulted(t *testing.T) {
	// RUN -> FAULT (0.011), FAULT stays (0.9), FAULT -> IDLE (0.1)
	rnd := &seqRand{fs: []float64{0.011, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.9, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.1, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, ns: []int{2, 1}}
	gen := NewGenerator(DefaultFacility, DefaultKappa, DefaultFaultCodes, rnd, fixedNow)
	st := gen.InitialState()

	first := gen.GenerateTelemetry(&st)
	second := gen.GenerateTelemetry(&st)
	third := gen.GenerateTelemetry(&st)

	if first.Status != StatusFault || first.FaultCode == nil || *first.FaultCode != "E503" {
		t.Fatalf("expected FAULT with E503, got %+v", first)
	}
	if second.Status != StatusFault || second.FaultCode == nil || *second.FaultCode != "E217" {
		t.Fatalf("expected FAULT with E217, got %+v", second)
	}
	if third.Status != StatusIdle || third.FaultCode != nil {
		t.Fatalf("expected IDLE without fault code, got %+v", third)
	}
}

func TestFaultCodeDrawnFromList(t *testing.T) {
	codes := []string{"E1", "E2"}
	gen := NewGenerator(DefaultFacility, DefaultKappa, codes, rand.New(rand.NewSource(7)), nil)
	st := gen.InitialState()
	for i := 0; i < 20000; i++ {
		ev := gen.GenerateTelemetry(&st)
		if (ev.Status == StatusFault) != (ev.FaultCode != nil) {
			t.Fatalf("tick %d: status %s with fault code %v", i, ev.Status, ev.FaultCode)
		}
		if ev.FaultCode != nil && *ev.FaultCode != "E1" && *ev.FaultCode != "E2" {
			t.Fatalf("tick %d: unexpected fault code %q", i, *ev.FaultCode)
		}
	}
}

func TestEventWireSchema(t *testing.T) {
	code := "E101"
	ev := Event{FacilityID: 1, Type: TypePEM, Timestamp: "2025-03-02T08:30:15+09:00", Status: StatusFault, PurityPct: 99.979, FaultCode: &code}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"facId":1`, `"electrolyzerType":"PEM"`, `"ts":"2025-03-02T08:30:15+09:00"`, `"status":"FAULT"`, `"stackTempC":0`, `"stackPressBar":0`, `"outletPressBar":0`, `"dcVoltageV":0`, `"dcCurrentA":0`, `"purityPct":99.979`, `"faultCode":"E101"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("missing %s in %s", key, data)
		}
	}
	ev.FaultCode = nil
	data, _ = json.Marshal(ev)
	if !strings.Contains(string(data), `"faultCode":null`) {
		t.Errorf("expected null fault code, got %s", data)
	}
}

func TestEventTime(t *testing.T) {
	ev := Event{Timestamp: FormatTimestamp(fixedNow())}
	ts, err := ev.Time()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !ts.Equal(fixedNow().Truncate(time.Second)) {
		t.Errorf("round trip mismatch: %v", ts)
	}
}

func TestEmptyFaultCodesFallBackToDefaults(t *testing.T) {
	// 0.011 moves RUN to FAULT
	gen := NewGenerator(DefaultFacility, DefaultKappa, nil, fixedRand{f: 0.011, n: 1}, fixedNow)
	st := gen.InitialState()
	ev := gen.GenerateTelemetry(&st)
	if ev.Status != StatusFault {
		t.Fatalf("expected FAULT, got %s", ev.Status)
	}
	if ev.FaultCode == nil || *ev.FaultCode != DefaultFaultCodes[1] {
		t.Fatalf("expected default fault code %s, got %v", DefaultFaultCodes[1], ev.FaultCode)
	}
}
