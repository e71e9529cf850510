package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"electrolyzer-sim/internal/config"
	"electrolyzer-sim/internal/telemetry"
)

func encodeEvents(t *testing.T, evs []telemetry.Event) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, ev := range evs {
		if err := enc.Encode(ev); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	return &buf
}

func TestReplayLog(t *testing.T) {
	code := "E217"
	evs := []telemetry.Event{
		{FacilityID: 1, Type: "PEM", Timestamp: "2025-03-02T08:30:15+09:00", Status: telemetry.StatusRun},
		{FacilityID: 1, Type: "PEM", Timestamp: "2025-03-02T08:30:17+09:00", Status: telemetry.StatusFault, FaultCode: &code},
	}
	cw := &MockWriter{}
	n, err := ReplayLog(context.Background(), encodeEvents(t, evs), cw, 0)
	if err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if n != 2 || len(cw.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(cw.Events))
	}
	if cw.Events[1].FaultCode == nil || *cw.Events[1].FaultCode != code {
		t.Fatalf("fault code lost: %+v", cw.Events[1])
	}
}

func TestReplayLogRejectsBadTimestamp(t *testing.T) {
	evs := []telemetry.Event{{FacilityID: 1, Timestamp: "yesterday"}}
	if _, err := ReplayLog(context.Background(), encodeEvents(t, evs), &MockWriter{}, 0); err == nil {
		t.Fatal("expected timestamp error")
	}
}

func TestReplayLogStopsOnCancel(t *testing.T) {
	evs := []telemetry.Event{
		{FacilityID: 1, Timestamp: "2025-03-02T08:30:15+09:00"},
		{FacilityID: 1, Timestamp: "2025-03-02T09:30:15+09:00"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cw := &cancelWriter{cancel: cancel}
	n, err := ReplayLog(ctx, encodeEvents(t, evs), cw, 1)
	if err == nil || n != 1 {
		t.Fatalf("expected cancellation after first event, got n=%d err=%v", n, err)
	}
}

type cancelWriter struct{ cancel func() }

func (w *cancelWriter) Write(telemetry.Event) error {
	w.cancel()
	return nil
}

func TestReplayLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	body := `{"facId":2,"electrolyzerType":"PEM","ts":"2025-03-02T08:30:15+09:00","status":"IDLE","faultCode":null}` + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cw := &MockWriter{}
	if _, err := ReplayLogFile(context.Background(), path, cw, 0); err != nil {
		t.Fatalf("ReplayLogFile: %v", err)
	}
	if len(cw.Events) != 1 || cw.Events[0].Status != telemetry.StatusIdle {
		t.Fatalf("unexpected events: %+v", cw.Events)
	}
	if _, err := ReplayLogFile(context.Background(), path+".missing", cw, 0); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestCaptureThenReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	fw, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	cfg := config.Default()
	sim := NewSimulator(cfg, fw, halfRand{}, fixedClock)
	for i := 0; i < 3; i++ {
		sim.tick(context.Background())
	}
	if err := fw.Close(); err != nil {
		t.Fatal(err)
	}

	cw := &MockWriter{}
	n, err := ReplayLogFile(context.Background(), path, cw, 0)
	if err != nil || n != 3 {
		t.Fatalf("replayed %d events: %v", n, err)
	}
	if snap, _ := sim.Snapshot(); cw.Events[2] != snap {
		t.Fatalf("replayed event %+v differs from %+v", cw.Events[2], snap)
	}
}
