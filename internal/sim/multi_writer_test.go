package sim

import (
	"errors"
	"testing"

	"electrolyzer-sim/internal/telemetry"
)

func TestMultiWriterFansOut(t *testing.T) {
	a, b := &MockWriter{}, &MockWriter{}
	mw := NewMultiWriter(a, nil, b)
	if err := mw.Write(telemetry.Event{FacilityID: 1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(a.Events) != 1 || len(b.Events) != 1 {
		t.Fatalf("event not forwarded: %d/%d", len(a.Events), len(b.Events))
	}
}

func TestMultiWriterContinuesAfterError(t *testing.T) {
	sinkErr := errors.New("boom")
	failing := &MockWriter{Err: sinkErr}
	ok := &MockWriter{}
	mw := NewMultiWriter(failing, ok)
	err := mw.Write(telemetry.Event{FacilityID: 1})
	if !errors.Is(err, sinkErr) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(ok.Events) != 1 {
		t.Fatalf("second writer skipped")
	}
}

func TestLastEventSnapshot(t *testing.T) {
	var l LastEvent
	if _, ok := l.Snapshot(); ok {
		t.Fatal("expected empty snapshot")
	}
	_ = NewMultiWriter(&l).Write(telemetry.Event{FacilityID: 7})
	ev, ok := l.Snapshot()
	if !ok || ev.FacilityID != 7 {
		t.Fatalf("unexpected snapshot %+v", ev)
	}
}
