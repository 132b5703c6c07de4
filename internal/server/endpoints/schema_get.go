package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/api"
	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/schema"
	"github.com/asmlabs/pagemark/internal/svcctx"
)

// GetSchemaEndpoint handles GET /api/schema/{id}.
// It returns the full assembled graph for the item's singular view, bypassing
// the transient cache so the output always reflects the current state.
type GetSchemaEndpoint struct{}

func (e *GetSchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/schema/{id}", e.handler
}

func (e *GetSchemaEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get an item's schema graph
//	@Description	Assemble and return the full JSON-LD graph for an item
//	@Tags			schema
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	schema.Graph
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/schema/{id} [get]
func (e *GetSchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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

	in := schema.Input{
		Item:      it,
		Ancestors: store.Ancestors(it),
		View:      content.View{Kind: content.ViewSingular},
		Site:      mgr.Get().SchemaSite(),
	}
	if meta := svcctx.MetaFrom(r.Context()); meta != nil {
		in.Override = meta.GetString(it.ID, content.MetaSchemaCustom, "")
		in.DeclaredType = meta.GetString(it.ID, content.MetaSchemaType, it.SchemaType)
	} else {
		in.DeclaredType = it.SchemaType
	}

	g := schema.Assemble(in)
	if g == nil {
		g = schema.Graph{}
	}
	writeJSON(w, http.StatusOK, g)
}

func (e *GetSchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get the assembled schema graph for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var g schema.Graph
			if err := client.Get(cmd.Context(), "/api/schema/"+args[0], &g); err != nil {
				return err
			}
			out, err := g.PrettyJSON()
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}
