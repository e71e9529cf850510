// ColorStdoutWriter prints human-friendly, colorized telemetry to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"electrolyzer-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints events using ANSI colors.
type ColorStdoutWriter struct {
	spec telemetry.FacilitySpec
	out  io.Writer
	once sync.Once
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(spec telemetry.FacilitySpec) *ColorStdoutWriter {
	return &ColorStdoutWriter{spec: spec, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	fmt.Fprintln(w.out, "Facility:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", w.spec.ID)
	fmt.Fprintf(tw, "Type:\t%s (model %s)\n", w.spec.Type, telemetry.CanonicalType(w.spec.Type))
	fmt.Fprintf(tw, "Outlet Setpoint (bar):\t%.2f\n", w.spec.PressureBar)
	fmt.Fprintf(tw, "Purity Setpoint (%%):\t%.3f\n", w.spec.PurityPct)
	tw.Flush()
	fmt.Fprintln(w.out)
}

func statusColor(s telemetry.Status) string {
	switch s {
	case telemetry.StatusFault:
		return colorRed
	case telemetry.StatusIdle:
		return colorYellow
	default:
		return colorGreen
	}
}

// Write outputs a single event in colorized format.
func (w *ColorStdoutWriter) Write(ev telemetry.Event) error {
	w.once.Do(w.printOverview)

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, ev.Timestamp, colorReset)
	fmt.Fprintf(w.out, "%sfac=%d%s ", colorBlue, ev.FacilityID, colorReset)
	fmt.Fprintf(w.out, "%sstatus=%-5s%s ", statusColor(ev.Status), ev.Status, colorReset)
	fmt.Fprintf(w.out, "%stemp=%.2f%s ", colorMagenta, ev.StackTempC, colorReset)
	fmt.Fprintf(w.out, "%sstack=%.2f%s ", colorCyan, ev.StackPressBar, colorReset)
	fmt.Fprintf(w.out, "%soutlet=%.2f%s ", colorCyan, ev.OutletPressBar, colorReset)
	fmt.Fprintf(w.out, "%svdc=%.2f%s ", colorYellow, ev.DCVoltageV, colorReset)
	fmt.Fprintf(w.out, "%sidc=%.2f%s ", colorYellow, ev.DCCurrentA, colorReset)
	fmt.Fprintf(w.out, "%spurity=%.6f%s", colorGreen, ev.PurityPct, colorReset)
	if ev.FaultCode != nil {
		fmt.Fprintf(w.out, " %sfault=%s%s", colorRed, *ev.FaultCode, colorReset)
	}
	_, err := fmt.Fprintln(w.out)
	return err
}
