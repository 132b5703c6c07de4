package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/api"
	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/render"
	"github.com/asmlabs/pagemark/internal/svcctx"
	"github.com/asmlabs/pagemark/internal/toc"
)

// RenderRequest is the request body for rendering content.
// Either ID (render a stored item) or Content (render ad-hoc HTML) must be
// set; ID wins when both are present.
type RenderRequest struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content,omitempty"`
	View    string `json:"view,omitempty"`
}

// RenderResponse is the enriched render output. Outline and TOCHTML are
// populated whenever the body cleared the heading threshold, even if the
// TOC was suppressed for this particular view.
type RenderResponse struct {
	Content    string      `json:"content"`
	Outline    []*toc.Node `json:"outline,omitempty"`
	TOCHTML    string      `json:"toc_html,omitempty"`
	Skipped    bool        `json:"skipped"`
	TOCApplied bool        `json:"toc_applied"`
}

// RenderEndpoint handles POST /api/render.
// It runs the content filter pipeline (currently the TOC filter) over the
// item body and returns the enriched HTML.
type RenderEndpoint struct{}

func (e *RenderEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/render", e.handler
}

func (e *RenderEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Render content
//	@Description	Run the content enrichment pipeline over an item or ad-hoc HTML
//	@Tags			render
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RenderRequest	true	"Render request"
//	@Success		200	{object}	RenderResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/render [post]
func (e *RenderEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.ID == "" && req.Content == "" {
		writeError(w, http.StatusBadRequest, "either id or content is required")
		return
	}

	mgr := svcctx.ConfigFrom(r.Context())
	if mgr == nil {
		writeError(w, http.StatusServiceUnavailable, "config not initialized")
		return
	}

	rc := render.Context{
		View:   content.View{Kind: content.ViewSingular},
		Config: mgr.Get(),
		Meta:   svcctx.MetaFrom(r.Context()),
	}
	if req.View != "" {
		rc.View.Kind = content.ViewKind(req.View)
	}

	body := req.Content
	if req.ID != "" {
		store := svcctx.ItemsFrom(r.Context())
		if store == nil {
			writeError(w, http.StatusServiceUnavailable, "content store not initialized")
			return
		}
		it, err := store.Get(req.ID)
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				writeError(w, http.StatusNotFound, "item not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		rc.Item = it
		body = it.Body
	}

	pipeline := render.Pipeline{render.TOCFilter()}
	out := pipeline.Apply(rc, body)

	resp := RenderResponse{
		Content:    out,
		Skipped:    true,
		TOCApplied: out != body,
	}

	opts := rc.Config.TOC.Options()
	if res := toc.Compile(body, opts); !res.Skipped {
		resp.Outline = res.Outline
		resp.TOCHTML = toc.RenderHTML(res.Outline, opts)
		resp.Skipped = false
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *RenderEndpoint) Command(getServerURL func() string) *cobra.Command {
	var id string
	var file string
	var view string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an item or HTML file through the enrichment pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" && file == "" {
				return fmt.Errorf("either --id or --file is required")
			}

			req := RenderRequest{ID: id, View: view}
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				req.Content = string(data)
			}

			client := api.NewClient(getServerURL())
			var resp RenderResponse
			if err := client.Post(cmd.Context(), "/api/render", req, &resp); err != nil {
				return err
			}
			fmt.Print(resp.Content)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Item ID to render")
	cmd.Flags().StringVar(&file, "file", "", "HTML file to render")
	cmd.Flags().StringVar(&view, "view", "singular", "View kind (singular, front, category, ...)")
	return cmd
}
