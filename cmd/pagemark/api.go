package main

import (
	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running pagemark server via HTTP.

These commands require a running server (pagemark serve).
Use --server to specify a custom server URL.

Examples:
  pagemark api health               # Check server health
  pagemark api items list           # List content items
  pagemark api render --id hello    # Render an item with its TOC`,
}

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Content item commands",
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Structured data commands",
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Per-item settings commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Render endpoints at top level of api
	apiCmd.AddCommand((&endpoints.RenderEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.HeadEndpoint{}).Command(getServerURL))

	// Items as subcommand group
	itemsCmd.AddCommand((&endpoints.ListItemsEndpoint{}).Command(getServerURL))
	itemsCmd.AddCommand((&endpoints.GetItemEndpoint{}).Command(getServerURL))
	itemsCmd.AddCommand((&endpoints.ExportItemEndpoint{}).Command(getServerURL))

	// Schema as subcommand group
	schemaCmd.AddCommand((&endpoints.GetSchemaEndpoint{}).Command(getServerURL))
	schemaCmd.AddCommand((&endpoints.ValidateSchemaEndpoint{}).Command(getServerURL))

	// Settings as subcommand group
	settingsCmd.AddCommand((&endpoints.ListSettingsEndpoint{}).Command(getServerURL))
	settingsCmd.AddCommand((&endpoints.GetSettingEndpoint{}).Command(getServerURL))
	settingsCmd.AddCommand((&endpoints.UpdateSettingEndpoint{}).Command(getServerURL))
	settingsCmd.AddCommand((&endpoints.DeleteSettingEndpoint{}).Command(getServerURL))

	// Swagger at top level
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(itemsCmd)
	apiCmd.AddCommand(schemaCmd)
	apiCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(apiCmd)
}
