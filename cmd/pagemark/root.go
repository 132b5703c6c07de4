package main

import (
	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/api"
	"github.com/asmlabs/pagemark/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pagemark",
	Short: "Content enrichment service for tables of contents and structured data",
	Long: `Pagemark enriches rendered HTML content with navigation and
machine-readable metadata.

It provides:
  - Table of contents compilation from h2-h4 headings, with stable
    fragment ids and nested outline rendering
  - schema.org JSON-LD assembly (articles, products, recipes, events,
    FAQ pages, how-tos and local businesses) with per-item overrides
  - Validation of generated structured data against required and
    recommended property tables`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.pagemark/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "pagemark home directory (default: ~/.pagemark)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
