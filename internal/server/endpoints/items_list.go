package endpoints

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/api"
	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/svcctx"
)

// ListItemsResponse is the response for listing content items.
type ListItemsResponse struct {
	Items []ItemSummary `json:"items"`
}

// ItemSummary is the listing view of an item, without the body.
type ItemSummary struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	SchemaType string `json:"schema_type,omitempty"`
	Modified   string `json:"modified,omitempty"`
}

func summarize(it *content.Item) ItemSummary {
	s := ItemSummary{
		ID:         it.ID,
		Kind:       string(it.Kind),
		Title:      it.Title,
		URL:        it.URL,
		SchemaType: it.SchemaType,
	}
	if !it.Modified.IsZero() {
		s.Modified = it.Modified.Format(time.RFC3339)
	}
	return s
}

// ListItemsEndpoint handles GET /api/items.
type ListItemsEndpoint struct{}

func (e *ListItemsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/items", e.handler
}

func (e *ListItemsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List content items
//	@Description	List all content items in the store
//	@Tags			items
//	@Produce		json
//	@Param			kind	query		string	false	"Filter by kind (post, page, product)"
//	@Success		200	{object}	ListItemsResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/items [get]
func (e *ListItemsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.ItemsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "content store not initialized")
		return
	}

	kind := r.URL.Query().Get("kind")

	items := []ItemSummary{}
	for _, it := range store.List() {
		if kind != "" && string(it.Kind) != kind {
			continue
		}
		items = append(items, summarize(it))
	}

	writeJSON(w, http.StatusOK, ListItemsResponse{Items: items})
}

func (e *ListItemsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content items",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/items"
			if kind != "" {
				path += "?kind=" + kind
			}
			var resp ListItemsResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (post, page, product)")
	return cmd
}
