package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/api"
	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/render"
	"github.com/asmlabs/pagemark/internal/svcctx"
)

// HeadResponse carries the document head fragments for an item.
type HeadResponse struct {
	Head string `json:"head"`
}

// HeadEndpoint handles GET /api/head/{id}.
// It runs the head emitter pipeline (currently the JSON-LD emitter) for the
// item's singular view.
type HeadEndpoint struct{}

func (e *HeadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/head/{id}", e.handler
}

func (e *HeadEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get head fragments for an item
//	@Description	Returns the structured-data script tag and any other head output
//	@Tags			render
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	HeadResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/head/{id} [get]
func (e *HeadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}

	store := svcctx.ItemsFrom(r.Context())
	mgr := svcctx.ConfigFrom(r.Context())
	if store == nil || mgr == nil {
		writeError(w, http.StatusServiceUnavailable, "server not initialized")
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

	rc := render.Context{
		Item:      it,
		Ancestors: store.Ancestors(it),
		View:      content.View{Kind: content.ViewSingular},
		Config:    mgr.Get(),
		Meta:      svcctx.MetaFrom(r.Context()),
	}

	pipeline := render.HeadPipeline{render.SchemaEmitter(svcctx.CacheFrom(r.Context()))}

	writeJSON(w, http.StatusOK, HeadResponse{Head: pipeline.Render(rc)})
}

func (e *HeadEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "head <id>",
		Short: "Get the head fragments for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HeadResponse
			if err := client.Get(cmd.Context(), "/api/head/"+args[0], &resp); err != nil {
				return err
			}
			fmt.Println(resp.Head)
			return nil
		},
	}
}
