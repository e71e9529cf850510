package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"electrolyzer-sim/internal/sim"
	"electrolyzer-sim/internal/telemetry"
)

type collectWriter struct{ events []telemetry.Event }

func (c *collectWriter) Write(ev telemetry.Event) error {
	c.events = append(c.events, ev)
	return nil
}

func TestNewWritersPassThrough(t *testing.T) {
	primary := &collectWriter{}
	w, cleanup, err := newWriters(primary, telemetry.DefaultFacility, sim.EchoNone, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if w != sim.EventWriter(primary) {
		t.Fatalf("expected primary writer, got %T", w)
	}
}

func TestNewWritersCapture(t *testing.T) {
	primary := &collectWriter{}
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	w, cleanup, err := newWriters(primary, telemetry.DefaultFacility, sim.EchoNone, path)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if _, ok := w.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", w)
	}
	if err := w.Write(telemetry.Event{FacilityID: 3, Status: telemetry.StatusIdle}); err != nil {
		t.Fatalf("write: %v", err)
	}
	cleanup()

	if len(primary.events) != 1 {
		t.Fatalf("primary writer skipped")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read capture: %v", err)
	}
	if !strings.Contains(string(b), `"facId":3`) {
		t.Fatalf("capture missing event: %s", b)
	}
}

func TestNewWritersBadEcho(t *testing.T) {
	if _, _, err := newWriters(&collectWriter{}, telemetry.DefaultFacility, "loud", ""); err == nil {
		t.Fatal("expected error for unknown echo mode")
	}
}

func TestNewWritersBadCapturePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "capture.jsonl")
	if _, _, err := newWriters(&collectWriter{}, telemetry.DefaultFacility, sim.EchoNone, path); err == nil {
		t.Fatal("expected error for unwritable capture path")
	}
}
