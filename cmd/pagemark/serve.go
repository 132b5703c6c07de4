package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/config"
	"github.com/asmlabs/pagemark/internal/home"
	"github.com/asmlabs/pagemark/internal/server"
	"github.com/asmlabs/pagemark/internal/server/endpoints"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pagemark server",
	Long: `Start the pagemark HTTP server.

The server loads content items from the home directory and exposes the
enrichment pipelines over HTTP:
  - /api/render           - content pipeline (table of contents)
  - /api/head/{id}        - head pipeline (JSON-LD structured data)
  - /api/schema/validate  - admin structured-data validation

Examples:
  pagemark serve                    # Start on default port 8080
  pagemark serve --port 3000        # Start on custom port
  pagemark serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Load configuration, preferring an explicit --config path
		configPath := cfgFile
		if configPath == "" && h.ConfigExists() {
			configPath = h.ConfigPath()
		}
		mgr, err := config.NewManager(configPath)
		if err != nil {
			return err
		}

		// Create server
		srv, err := server.New(server.Config{
			Host:            serveHost,
			Port:            servePort,
			Home:            h,
			ConfigManager:   mgr,
			Logger:          logger,
			SwaggerSpecPath: endpoints.GetSwaggerSpecPath(),
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
