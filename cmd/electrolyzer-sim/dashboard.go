package main

import (
	"github.com/spf13/cobra"

	"electrolyzer-sim/internal/dashboard"
	"electrolyzer-sim/internal/logging"
)

var dashboardOut string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render Grafana dashboards for the publisher metrics",
	Long:  "dashboard renders the bundled Grafana dashboards. PROMETHEUS_DATASOURCE_UID must be set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		written, err := dashboard.Render(dashboardOut)
		if err != nil {
			return err
		}
		log := logging.FromContext(cmd.Context())
		for _, p := range written {
			log.Info("dashboard written", "path", p)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Output directory")
}
