package main

import (
	"github.com/spf13/cobra"

	"electrolyzer-sim/internal/watch"
)

var watchURL string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a telemetry stream in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return watch.Run(cmd.Context(), watchURL)
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "http://localhost:5000/stream", "Stream endpoint to follow")
}
