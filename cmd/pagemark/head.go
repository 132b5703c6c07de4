package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/config"
	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/home"
	"github.com/asmlabs/pagemark/internal/schema"
)

var headScriptTag bool

var headCmd = &cobra.Command{
	Use:   "head <item-id>",
	Short: "Print the JSON-LD structured data for an item",
	Long: `Assemble and print the schema.org graph for an item from the local
home directory, without a running server.

Examples:
  pagemark head hello             # Pretty-printed graph
  pagemark head hello --script    # Full <script> tag as emitted into heads`,
	Args: cobra.ExactArgs(1),
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

		items, err := content.NewStore(h.ItemsPath())
		if err != nil {
			return err
		}
		meta, err := content.NewMetaStore(h.MetaPath())
		if err != nil {
			return err
		}

		it, err := items.Get(args[0])
		if err != nil {
			return err
		}

		in := schema.Input{
			Item:         it,
			Ancestors:    items.Ancestors(it),
			View:         content.View{Kind: content.ViewSingular},
			Site:         mgr.Get().SchemaSite(),
			Override:     meta.GetString(it.ID, content.MetaSchemaCustom, ""),
			DeclaredType: meta.GetString(it.ID, content.MetaSchemaType, it.SchemaType),
		}

		g := schema.Assemble(in)
		if len(g) == 0 {
			return fmt.Errorf("structured data is disabled for %q", it.ID)
		}
		if headScriptTag {
			fmt.Println(g.ScriptTag())
			return nil
		}

		out, err := g.PrettyJSON()
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	headCmd.Flags().BoolVar(&headScriptTag, "script", false, "Print the full script tag")

	rootCmd.AddCommand(headCmd)
}
