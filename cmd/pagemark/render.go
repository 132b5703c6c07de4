package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/api"
	"github.com/asmlabs/pagemark/internal/toc"
)

var (
	renderMinHeadings int
	renderTitle       string
	renderPosition    string
	renderWidth       int
	renderNoToggle    bool
	renderOutlineOnly bool
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Compile a table of contents from an HTML file",
	Long: `Compile a table of contents from a local HTML file, without a
running server.

The compiler scans h2-h4 headings, assigns stable fragment ids and prints
the enriched HTML with the TOC block inserted. With --outline the nested
heading structure is printed instead.

Examples:
  pagemark render post.html                  # Enriched HTML to stdout
  pagemark render post.html --outline        # Outline as yaml
  pagemark render post.html --position after-first-p`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		opts := toc.DefaultOptions()
		if renderMinHeadings > 0 {
			opts.MinHeadings = renderMinHeadings
		}
		if renderTitle != "" {
			opts.Title = renderTitle
		}
		if renderPosition != "" {
			opts.Position = toc.Position(renderPosition)
		}
		if renderWidth > 0 {
			opts.WidthPercent = renderWidth
		}
		opts.ShowToggle = !renderNoToggle

		res := toc.Compile(string(data), opts)
		if res.Skipped {
			return fmt.Errorf("found %d headings, need at least %d", len(res.Headings), opts.MinHeadings)
		}

		if renderOutlineOnly {
			return api.Output(res.Outline)
		}

		block := toc.RenderHTML(res.Outline, opts)
		fmt.Print(toc.Insert(res.Content, block, opts.Position))
		return nil
	},
}

func init() {
	renderCmd.Flags().IntVar(&renderMinHeadings, "min-headings", 0, "Minimum headings required (default 3)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "TOC block title")
	renderCmd.Flags().StringVar(&renderPosition, "position", "", "Insert position: top or after-first-p")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "TOC container width percent (100, 75 or 50)")
	renderCmd.Flags().BoolVar(&renderNoToggle, "no-toggle", false, "Omit the collapse button")
	renderCmd.Flags().BoolVar(&renderOutlineOnly, "outline", false, "Print the outline instead of HTML")

	rootCmd.AddCommand(renderCmd)
}
