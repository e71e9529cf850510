package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"electrolyzer-sim/internal/broadcast"
	"electrolyzer-sim/internal/logging"
	"electrolyzer-sim/internal/metrics"
	"electrolyzer-sim/internal/server"
	"electrolyzer-sim/internal/sim"
)

var (
	replayInput      string
	replaySpeed      float64
	replayLoop       bool
	replayConfigPath string
	replayAddr       string
	replayEcho       string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Stream a captured telemetry log",
	Long:  "replay feeds events from a JSONL capture into /stream in place of the live model.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return errors.New("input file required")
		}
		cfg, err := loadConfig(cmd, replayConfigPath, replayAddr)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		log := logging.FromContext(ctx)

		reg := newRegistry()
		hub := broadcast.New(cfg.SubscriberBuffer, metrics.New(reg))
		defer hub.Close()

		last := &sim.LastEvent{}
		writer, cleanup, err := newWriters(sim.NewMultiWriter(hub, last), cfg.Spec(), replayEcho, "")
		if err != nil {
			return err
		}
		defer cleanup()

		srv := server.NewServer(hub, last, server.Options{
			Facility:    cfg.Spec(),
			TickSeconds: cfg.TickSeconds,
			Origins:     cfg.Origins,
			Gatherer:    reg,
		})

		replayErr := make(chan error, 1)
		go func() {
			replayErr <- replayLoopFile(ctx, writer)
		}()
		go func() {
			if err := <-replayErr; err != nil {
				log.Error("replay failed", "input", replayInput, "err", err)
				cancel()
			}
		}()

		return srv.Start(ctx, cfg.ListenAddr)
	},
}

// replayLoopFile plays the capture once, or until cancelled with --loop.
func replayLoopFile(ctx context.Context, writer sim.EventWriter) error {
	log := logging.FromContext(ctx)
	for {
		n, err := sim.ReplayLogFile(ctx, replayInput, writer, replaySpeed)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		log.Info("replay finished", "input", replayInput, "events", n)
		if !replayLoop {
			return nil
		}
		if n == 0 {
			return errors.New("cannot loop an empty capture")
		}
	}
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to JSONL capture file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier (0 streams without delay)")
	replayCmd.Flags().BoolVar(&replayLoop, "loop", false, "Restart from the beginning when the capture ends")
	replayCmd.Flags().StringVar(&replayConfigPath, "config", "config/publisher.yaml", "Path to publisher configuration YAML")
	replayCmd.Flags().StringVar(&replayAddr, "addr", ":5000", "HTTP listen address")
	replayCmd.Flags().StringVar(&replayEcho, "echo", sim.EchoNone, "Echo events to STDOUT (auto, json, color, none)")
	replayCmd.MarkFlagRequired("input")
}
