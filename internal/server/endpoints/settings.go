package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/api"
	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/render"
	"github.com/asmlabs/pagemark/internal/svcctx"
)

// SettingsResponse lists per-item settings entries.
type SettingsResponse struct {
	Settings []content.Entry `json:"settings"`
}

// SettingResponse contains a single settings entry.
type SettingResponse struct {
	Entry content.Entry `json:"entry"`
}

// UpdateSettingRequest is the request body for updating a setting.
type UpdateSettingRequest struct {
	Value any `json:"value"`
}

// ListSettingsEndpoint handles GET /api/settings.
type ListSettingsEndpoint struct{}

func (e *ListSettingsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings", e.handler
}

func (e *ListSettingsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List all per-item settings
//	@Description	Get every per-item settings entry (schema overrides, TOC flags, ...)
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/settings [get]
func (e *ListSettingsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	meta := svcctx.MetaFrom(r.Context())
	if meta == nil {
		writeError(w, http.StatusServiceUnavailable, "meta store not initialized")
		return
	}

	entries := meta.Entries()
	if entries == nil {
		entries = []content.Entry{}
	}
	writeJSON(w, http.StatusOK, SettingsResponse{Settings: entries})
}

func (e *ListSettingsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all per-item settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SettingsResponse
			if err := client.Get(cmd.Context(), "/api/settings", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetSettingEndpoint handles GET /api/settings/{item}/{key...}.
type GetSettingEndpoint struct{}

func (e *GetSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings/{item}/{key...}", e.handler
}

func (e *GetSettingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a per-item setting
//	@Description	Get one settings entry by item ID and key
//	@Tags			settings
//	@Produce		json
//	@Param			item	path		string	true	"Item ID"
//	@Param			key		path		string	true	"Setting key"
//	@Success		200	{object}	SettingResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/settings/{item}/{key} [get]
func (e *GetSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("item")
	key := r.PathValue("key")
	if err := content.ValidateKey(key); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	meta := svcctx.MetaFrom(r.Context())
	if meta == nil {
		writeError(w, http.StatusServiceUnavailable, "meta store not initialized")
		return
	}

	for _, entry := range meta.All(itemID) {
		if entry.Key == key {
			writeJSON(w, http.StatusOK, SettingResponse{Entry: entry})
			return
		}
	}
	writeError(w, http.StatusNotFound, "setting not found")
}

func (e *GetSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <item-id> <key>",
		Short: "Get a per-item setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SettingResponse
			path := "/api/settings/" + args[0] + "/" + args[1]
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp.Entry)
		},
	}
}

// UpdateSettingEndpoint handles PUT /api/settings/{item}/{key...}.
type UpdateSettingEndpoint struct{}

func (e *UpdateSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/settings/{item}/{key...}", e.handler
}

func (e *UpdateSettingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Update a per-item setting
//	@Description	Set a settings entry; changing it drops the item's cached schema output
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			item	path		string					true	"Item ID"
//	@Param			key		path		string					true	"Setting key"
//	@Param			body	body		UpdateSettingRequest	true	"New value"
//	@Success		200	{object}	SettingResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/settings/{item}/{key} [put]
func (e *UpdateSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("item")
	key := r.PathValue("key")
	if err := content.ValidateKey(key); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	meta := svcctx.MetaFrom(r.Context())
	if meta == nil {
		writeError(w, http.StatusServiceUnavailable, "meta store not initialized")
		return
	}

	if err := meta.Set(itemID, key, req.Value); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Schema-affecting settings invalidate the item's cached output.
	render.InvalidateItem(svcctx.CacheFrom(r.Context()), itemID)

	writeJSON(w, http.StatusOK, SettingResponse{
		Entry: content.Entry{ItemID: itemID, Key: key, Value: req.Value},
	})
}

func (e *UpdateSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	var value string
	cmd := &cobra.Command{
		Use:   "set <item-id> <key>",
		Short: "Update a per-item setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			// Parse value as JSON, falling back to a plain string
			var parsedValue any
			if err := json.Unmarshal([]byte(value), &parsedValue); err != nil {
				parsedValue = value
			}

			var resp SettingResponse
			path := "/api/settings/" + args[0] + "/" + args[1]
			if err := client.Put(cmd.Context(), path, UpdateSettingRequest{Value: parsedValue}, &resp); err != nil {
				return err
			}
			return api.Output(resp.Entry)
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "New value (JSON or string)")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// DeleteSettingEndpoint handles DELETE /api/settings/{item}/{key...}.
type DeleteSettingEndpoint struct{}

func (e *DeleteSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/settings/{item}/{key...}", e.handler
}

func (e *DeleteSettingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Delete a per-item setting
//	@Description	Remove a settings entry, restoring the site-wide default behavior
//	@Tags			settings
//	@Produce		json
//	@Param			item	path		string	true	"Item ID"
//	@Param			key		path		string	true	"Setting key"
//	@Success		200	{object}	SettingResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/settings/{item}/{key} [delete]
func (e *DeleteSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("item")
	key := r.PathValue("key")
	if err := content.ValidateKey(key); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	meta := svcctx.MetaFrom(r.Context())
	if meta == nil {
		writeError(w, http.StatusServiceUnavailable, "meta store not initialized")
		return
	}

	if err := meta.Delete(itemID, key); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	render.InvalidateItem(svcctx.CacheFrom(r.Context()), itemID)

	writeJSON(w, http.StatusOK, SettingResponse{
		Entry: content.Entry{ItemID: itemID, Key: key},
	})
}

func (e *DeleteSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <item-id> <key>",
		Short: "Delete a per-item setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SettingResponse
			path := "/api/settings/" + args[0] + "/" + args[1]
			if err := client.Delete(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp.Entry)
		},
	}
}
