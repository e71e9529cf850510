package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"electrolyzer-sim/internal/telemetry"
)

// maxFaults bounds the fault log.
const maxFaults = 50

// eventMsg carries one received event.
type eventMsg struct{ telemetry.Event }

// connMsg reports the connection state. A nil err means connected.
type connMsg struct {
	connected bool
	err       error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	faultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	statusStyles = map[telemetry.Status]lipgloss.Style{
		telemetry.StatusRun:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		telemetry.StatusIdle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		telemetry.StatusFault: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

type model struct {
	url       string
	table     table.Model
	last      *telemetry.Event
	counts    map[telemetry.Status]int
	received  int
	faults    []string
	connected bool
	connErr   error
	width     int
}

func newModel(url string) model {
	cols := []table.Column{
		{Title: "Signal", Width: 22},
		{Title: "Value", Width: 12},
	}
	t := table.New(table.WithColumns(cols), table.WithRows(signalRows(nil)), table.WithHeight(7))
	return model{url: url, table: t, counts: map[telemetry.Status]int{}}
}

// signalRows renders the signal table, with placeholders before the first event.
func signalRows(ev *telemetry.Event) []table.Row {
	names := []string{
		"Stack temp (°C)", "Stack press (bar)", "Outlet press (bar)",
		"DC voltage (V)", "DC current (A)", "H2 purity (%)",
	}
	rows := make([]table.Row, len(names))
	for i, n := range names {
		rows[i] = table.Row{n, "-"}
	}
	if ev == nil {
		return rows
	}
	rows[0][1] = fmt.Sprintf("%.2f", ev.StackTempC)
	rows[1][1] = fmt.Sprintf("%.2f", ev.StackPressBar)
	rows[2][1] = fmt.Sprintf("%.2f", ev.OutletPressBar)
	rows[3][1] = fmt.Sprintf("%.2f", ev.DCVoltageV)
	rows[4][1] = fmt.Sprintf("%.2f", ev.DCCurrentA)
	rows[5][1] = fmt.Sprintf("%.6f", ev.PurityPct)
	return rows
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "c":
			m.faults = nil
		}
	case connMsg:
		m.connected = msg.connected
		m.connErr = msg.err
	case eventMsg:
		ev := msg.Event
		m.last = &ev
		m.received++
		m.counts[ev.Status]++
		m.table.SetRows(signalRows(&ev))
		if ev.FaultCode != nil {
			m.faults = append(m.faults, fmt.Sprintf("%s %s", ev.Timestamp, *ev.FaultCode))
			if len(m.faults) > maxFaults {
				m.faults = m.faults[len(m.faults)-maxFaults:]
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	header := titleStyle.Render("electrolyzer-sim watch") + " " + dimStyle.Render(m.url)
	b.WriteString(header + "\n")
	switch {
	case m.connected:
		b.WriteString(dimStyle.Render("connected") + "\n\n")
	case m.connErr != nil:
		b.WriteString(faultStyle.Render("disconnected: "+m.connErr.Error()) + "\n\n")
	default:
		b.WriteString(dimStyle.Render("connecting...") + "\n\n")
	}

	if m.last == nil {
		b.WriteString("waiting for telemetry\n")
	} else {
		st := statusStyles[m.last.Status].Render(string(m.last.Status))
		fmt.Fprintf(&b, "facility %d (%s)  %s  %s\n", m.last.FacilityID, m.last.Type, st, dimStyle.Render(m.last.Timestamp))
	}
	b.WriteString(m.table.View() + "\n\n")

	fmt.Fprintf(&b, "events %d  run %d  idle %d  fault %d\n",
		m.received, m.counts[telemetry.StatusRun], m.counts[telemetry.StatusIdle], m.counts[telemetry.StatusFault])

	if len(m.faults) > 0 {
		b.WriteString("\n" + titleStyle.Render("Faults") + "\n")
		log := strings.Join(m.faults, ", ")
		if m.width > 0 {
			log = wordwrap.String(log, m.width)
		}
		b.WriteString(faultStyle.Render(log) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("q quit  c clear faults"))
	return b.String()
}
