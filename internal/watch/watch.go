package watch

import (
	"context"
	"errors"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"electrolyzer-sim/internal/logging"
	"electrolyzer-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

var errStreamClosed = errors.New("stream closed by server")

// DefaultRetry is the pause between reconnect attempts.
const DefaultRetry = 2 * time.Second

// Run opens the dashboard and follows the stream at url until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, url string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(url), tea.WithAltScreen(), tea.WithContext(ctx))
	go follow(ctx, p, &http.Client{}, url, DefaultRetry)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// follow streams events into p, reconnecting after retry whenever the
// connection drops.
func follow(ctx context.Context, p teaProgram, client *http.Client, url string, retry time.Duration) {
	log := logging.FromContext(ctx)
	for {
		first := true
		err := Stream(ctx, client, url, func(ev telemetry.Event) {
			if first {
				p.Send(connMsg{connected: true})
				first = false
			}
			p.Send(eventMsg{ev})
		})
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			err = errStreamClosed
		}
		log.Debug("stream disconnected", "url", url, "err", err)
		p.Send(connMsg{err: err})

		select {
		case <-time.After(retry):
		case <-ctx.Done():
			return
		}
	}
}
