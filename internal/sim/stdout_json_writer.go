package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"electrolyzer-sim/internal/telemetry"
)

// JSONStdoutWriter prints events as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// Write outputs an event in JSON format.
func (w *JSONStdoutWriter) Write(ev telemetry.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
