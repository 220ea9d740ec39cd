package main

import (
	"github.com/spf13/cobra"

	"drillcli/internal/app"
	"drillcli/internal/config"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start an HTTP server exposing:
  POST /api/v1/desurvey  desurvey tables sent as JSON (JSON or CSV response)
  POST /api/v1/plan      project planned holes
  GET  /health /ready /live /version
  GET  /metrics          Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *root.cfg
			overlayInt(cmd, "port", &cfg.Server.Port)

			paths, err := config.GetPaths()
			if err != nil {
				return err
			}

			application, err := app.NewApplication(&cfg, paths, root.logger)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}

	cmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config, 8080)")
	return cmd
}
