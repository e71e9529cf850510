package sim

import (
	"sync"

	"electrolyzer-sim/internal/telemetry"
)

// LastEvent remembers the most recent event written to it. Replay mode uses
// it in place of the simulator to answer snapshot requests.
type LastEvent struct {
	mu sync.Mutex
	ev *telemetry.Event
}

// Write stores ev.
func (l *LastEvent) Write(ev telemetry.Event) error {
	l.mu.Lock()
	l.ev = &ev
	l.mu.Unlock()
	return nil
}

// Snapshot returns the last stored event, if any.
func (l *LastEvent) Snapshot() (telemetry.Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ev == nil {
		return telemetry.Event{}, false
	}
	return *l.ev, true
}
