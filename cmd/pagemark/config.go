package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/api"
	"github.com/asmlabs/pagemark/internal/config"
	"github.com/asmlabs/pagemark/internal/home"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pagemark configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Write the default configuration to the home directory.

The admin token and nonce secret default to ${PAGEMARK_ADMIN_TOKEN} and
${PAGEMARK_NONCE_SECRET}, resolved from the environment at load time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		if h.ConfigExists() {
			return fmt.Errorf("config already exists at %s", h.ConfigPath())
		}

		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", h.ConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}

		configPath := cfgFile
		if configPath == "" && h.ConfigExists() {
			configPath = h.ConfigPath()
		}
		mgr, err := config.NewManager(configPath)
		if err != nil {
			return err
		}
		return api.Output(mgr.Get())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
