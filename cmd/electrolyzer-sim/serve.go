package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"electrolyzer-sim/internal/broadcast"
	"electrolyzer-sim/internal/config"
	"electrolyzer-sim/internal/logging"
	"electrolyzer-sim/internal/metrics"
	"electrolyzer-sim/internal/server"
	"electrolyzer-sim/internal/sim"
)

var (
	serveConfigPath string
	serveAddr       string
	serveTick       time.Duration
	serveEcho       string
	serveCapture    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulator and stream its telemetry",
	Long:  "serve ticks the facility model and publishes every event on /stream until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, serveConfigPath, serveAddr)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("tick") {
			cfg.TickSeconds = serveTick.Seconds()
			if err := config.Validate(cfg); err != nil {
				return err
			}
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		log := logging.FromContext(ctx)

		reg := newRegistry()
		m := metrics.New(reg)
		hub := broadcast.New(cfg.SubscriberBuffer, m)
		defer hub.Close()

		writer, cleanup, err := newWriters(hub, cfg.Spec(), serveEcho, serveCapture)
		if err != nil {
			return err
		}
		defer cleanup()

		simulator := sim.NewSimulator(cfg, writer, nil, nil)
		simulator.SetMetrics(m)
		srv := server.NewServer(hub, simulator, server.Options{
			Facility:    cfg.Spec(),
			TickSeconds: cfg.TickSeconds,
			Origins:     cfg.Origins,
			Gatherer:    reg,
		})

		done := make(chan struct{})
		go func() {
			defer close(done)
			simulator.Run(ctx)
		}()

		err = srv.Start(ctx, cfg.ListenAddr)
		cancel()
		<-done
		log.Info("publisher stopped")
		return err
	},
}

// loadConfig reads the config file, which may be absent when the path flag
// was left at its default, and applies the listen address flag.
func loadConfig(cmd *cobra.Command, path, addr string) (*config.Config, error) {
	cfg, err := config.Load(path, !cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = addr
	}
	return cfg, nil
}

// newRegistry returns a registry with the runtime collectors attached.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config/publisher.yaml", "Path to publisher configuration YAML")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":5000", "HTTP listen address")
	serveCmd.Flags().DurationVar(&serveTick, "tick", 2*time.Second, "Telemetry tick interval (e.g. 500ms, 2s)")
	serveCmd.Flags().StringVar(&serveEcho, "echo", sim.EchoNone, "Echo events to STDOUT (auto, json, color, none)")
	serveCmd.Flags().StringVar(&serveCapture, "capture", "", "Record events to a JSONL file for later replay")
}
