package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecotrack/internal/app"
	apierrors "ecotrack/internal/errors"
)

func newServeCommand(g *globals) *cobra.Command {
	var dataPath string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP and WebSocket",
		Long: `Loads the cleaned dataset and serves the dashboard page, the REST API and
the /ws event channel until interrupted. Without a dataset the server still
starts and reports not ready.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				g.cfg.Server.Port = port
				if err := g.cfg.Validate(); err != nil {
					return apierrors.NewConfigError("invalid --port", err)
				}
			}

			application, err := app.NewApplication(cmd.Context(), app.Options{
				Config:   g.cfg,
				Logger:   g.logger,
				DataPath: dataPath,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "Cleaned dataset to serve; defaults to data.cleaned_file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port; overrides server.port")
	return cmd
}
