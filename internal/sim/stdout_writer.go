// Writer selection for echoing events to STDOUT
package sim

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"electrolyzer-sim/internal/telemetry"
)

// Echo modes accepted by NewStdoutWriter.
const (
	EchoAuto  = "auto"
	EchoJSON  = "json"
	EchoColor = "color"
	EchoNone  = "none"
)

// NewStdoutWriter returns the STDOUT echo writer for mode, or nil for "none".
// Auto mode colorizes when STDOUT is a terminal and prints JSON otherwise.
func NewStdoutWriter(mode string, spec telemetry.FacilitySpec) (EventWriter, error) {
	switch mode {
	case EchoNone:
		return nil, nil
	case EchoJSON:
		return NewJSONStdoutWriter(), nil
	case EchoColor:
		return NewColorStdoutWriter(spec), nil
	case EchoAuto, "":
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return NewColorStdoutWriter(spec), nil
		}
		return NewJSONStdoutWriter(), nil
	}
	return nil, fmt.Errorf("unknown echo mode %q", mode)
}
