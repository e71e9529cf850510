package sim

import (
	"context"
	"time"

	"electrolyzer-sim/internal/logging"
)

// Run starts the simulation loop and stops when the context is done.
// The first tick runs immediately.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.tickInterval, "facility", s.spec.ID, "type", s.spec.Type)

	if s.tickInterval <= 0 {
		for ctx.Err() == nil {
			s.tick(ctx)
		}
		log.Info("stopping simulator")
		return
	}

	s.tick(ctx)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			log.Info("stopping simulator")
			return
		}
	}
}

// tick advances the model once and writes the resulting event.
func (s *Simulator) tick(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	prev := s.state.Status
	ev := s.gen.GenerateTelemetry(&s.state)
	s.last = &ev
	s.mu.Unlock()

	if ev.Status != prev {
		log.Info("status changed", "from", prev, "to", ev.Status)
	}
	s.metrics.Tick(string(ev.Status))

	if s.writer == nil {
		return
	}
	if err := s.writer.Write(ev); err != nil {
		log.Error("write failed", "status", ev.Status, "err", err)
	}
}
