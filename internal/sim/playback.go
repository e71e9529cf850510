package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"electrolyzer-sim/internal/telemetry"
)

// ReplayLog replays events from r to writer. A speed >0 accelerates playback.
// If speed <= 0, no artificial delay is inserted.
func ReplayLog(ctx context.Context, r io.Reader, writer EventWriter, speed float64) (int, error) {
	dec := json.NewDecoder(r)
	var prev time.Time
	n := 0
	for {
		var ev telemetry.Event
		if err := dec.Decode(&ev); err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, fmt.Errorf("decode event %d: %w", n+1, err)
		}
		ts, err := ev.Time()
		if err != nil {
			return n, fmt.Errorf("event %d: %w", n+1, err)
		}
		if !prev.IsZero() && speed > 0 {
			diff := ts.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				select {
				case <-time.After(diff):
				case <-ctx.Done():
					return n, ctx.Err()
				}
			}
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := writer.Write(ev); err != nil {
			return n, err
		}
		n++
		prev = ts
	}
}

// ReplayLogFile opens a file and replays its events.
func ReplayLogFile(ctx context.Context, path string, writer EventWriter, speed float64) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ReplayLog(ctx, f, writer, speed)
}
