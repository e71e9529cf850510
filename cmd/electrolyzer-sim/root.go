package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"electrolyzer-sim/internal/logging"
)

var (
	logLevel string
	logFile  string
	logOut   io.WriteCloser
)

var rootCmd = &cobra.Command{
	Use:          "electrolyzer-sim",
	Short:        "Synthetic electrolyzer telemetry publisher",
	Long:         "electrolyzer-sim simulates a hydrogen electrolyzer and streams its telemetry to browsers over server-sent events.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logOut = logging.Output(logFile)
		logger := logging.New(logOut, level)
		slog.SetDefault(logger)
		cmd.SetContext(logging.NewContext(cmd.Context(), logger))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logOut != nil {
			logOut.Close()
		}
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a size-rotated file instead of STDOUT")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(dashboardCmd)
}
