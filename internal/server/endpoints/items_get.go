package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/api"
	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/svcctx"
)

// GetItemEndpoint handles GET /api/items/{id}.
type GetItemEndpoint struct{}

func (e *GetItemEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/items/{id}", e.handler
}

func (e *GetItemEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get item by ID
//	@Description	Get a full content item, including its body HTML
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	content.Item
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/items/{id} [get]
func (e *GetItemEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, it)
}

func (e *GetItemEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an item by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var it content.Item
			if err := client.Get(cmd.Context(), "/api/items/"+args[0], &it); err != nil {
				return err
			}
			return api.Output(it)
		},
	}
}
