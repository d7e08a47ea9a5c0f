package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/htmldoc/internal/config"
	"github.com/vango-dev/htmldoc/internal/preview"
)

func serveCmd() *cobra.Command {
	var (
		port int
		host string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview reports with live reload",
		Long: `Start a local server that renders the reports directory on request.

Open previews reload when their report changes. A report that fails
to parse is shown as an error overlay until it is fixed.

Examples:
  htmldoc serve
  htmldoc serve --port=8080
  htmldoc serve --dir=./out/reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault()
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if port > 0 {
				cfg.Serve.Port = port
			}
			if host != "" {
				cfg.Serve.Host = host
			}
			if dir != "" {
				abs, err := filepath.Abs(dir)
				if err != nil {
					return err
				}
				cfg.Reports.Dir = abs
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.ErrOrStderr()
			server := preview.NewServer(preview.ServerOptions{
				Config: cfg,
				OnReload: func(clients int) {
					success(out, "Reloaded %d browsers", clients)
				},
			})

			success(out, "Serving %s", cfg.ReportsPath())
			info(out, "Open %s", cfg.ServeURL())
			if err := server.Start(ctx); err != nil {
				return err
			}
			info(out, "Shut down")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from htmldoc.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from htmldoc.json)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Reports directory (default from htmldoc.json)")

	return cmd
}
