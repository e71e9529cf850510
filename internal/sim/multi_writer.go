package sim

import (
	"errors"

	"electrolyzer-sim/internal/telemetry"
)

// MultiWriter fan-outs events to multiple writers.
type MultiWriter struct {
	writers []EventWriter
}

// NewMultiWriter creates a new MultiWriter, skipping nil writers.
func NewMultiWriter(ws ...EventWriter) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// Write sends an event to all writers. A failing writer does not stop the
// others; their errors are joined.
func (mw *MultiWriter) Write(ev telemetry.Event) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.Write(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
