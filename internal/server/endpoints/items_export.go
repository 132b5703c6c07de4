package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/api"
	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/svcctx"
)

// ExportItemEndpoint handles GET /api/items/{id}/markdown.
// It converts the item's body HTML to markdown for offline editing.
type ExportItemEndpoint struct{}

func (e *ExportItemEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/items/{id}/markdown", e.handler
}

func (e *ExportItemEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Export item as markdown
//	@Description	Convert the item's body HTML to markdown
//	@Tags			items
//	@Produce		plain
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{string}	string
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/items/{id}/markdown [get]
func (e *ExportItemEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}

	store := svcctx.ItemsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "content store not initialized")
		return
	}

	it, err := store.Get(id)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	md, err := htmltomarkdown.ConvertString(it.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "markdown conversion failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprintf(w, "# %s\n\n%s", it.Title, md)
}

func (e *ExportItemEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export an item's body as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			md, err := client.GetText(cmd.Context(), "/api/items/"+args[0]+"/markdown")
			if err != nil {
				return err
			}
			if outputFile != "" {
				return os.WriteFile(outputFile, []byte(md), 0o644)
			}
			fmt.Print(md)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write markdown to file")
	return cmd
}
