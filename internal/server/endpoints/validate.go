package endpoints

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asmlabs/pagemark/internal/api"
	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/richresults"
	"github.com/asmlabs/pagemark/internal/schema"
	"github.com/asmlabs/pagemark/internal/svcctx"
)

// validateAction names the admin operation a nonce authorizes.
const validateAction = "validate-schema"

// Nonce derives the request nonce for an admin action from the configured
// secret.
func Nonce(secret, action string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(action))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidateRequest is the request body for schema validation. Exactly one of
// ID (validate a local item's generated schema) or URL (test a live page
// against the external rich-results service) should be set.
type ValidateRequest struct {
	ID    string `json:"id,omitempty"`
	URL   string `json:"url,omitempty"`
	Nonce string `json:"nonce"`
}

// Envelope is the admin response wrapper: Data holds the payload on
// success and a {"message": ...} object on failure.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ValidationData is the success payload for local item validation.
type ValidationData struct {
	Title           string        `json:"title"`
	Permalink       string        `json:"permalink"`
	SchemaType      string        `json:"schema_type"`
	SchemaJSON      string        `json:"schema_json"`
	Validation      schema.Report `json:"validation"`
	Recommendations []string      `json:"recommendations"`
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data any) {
	writeJSON(w, status, Envelope{Success: success, Data: data})
}

func writeEnvelopeError(w http.ResponseWriter, status int, msg string) {
	writeEnvelope(w, status, false, map[string]string{"message": msg})
}

// ValidateSchemaEndpoint handles POST /api/schema/validate.
// This is an admin operation: the bearer token and request nonce are
// checked before any work happens.
type ValidateSchemaEndpoint struct{}

func (e *ValidateSchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/schema/validate", e.handler
}

func (e *ValidateSchemaEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Validate an item's structured data
//	@Description	Check generated schema against required/recommended property tables, or test a live URL against the rich-results service
//	@Tags			schema
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ValidateRequest	true	"Validation request"
//	@Success		200	{object}	Envelope
//	@Failure		400	{object}	Envelope
//	@Failure		401	{object}	Envelope
//	@Failure		404	{object}	Envelope
//	@Failure		502	{object}	Envelope
//	@Router			/api/schema/validate [post]
func (e *ValidateSchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	mgr := svcctx.ConfigFrom(r.Context())
	if mgr == nil {
		writeEnvelopeError(w, http.StatusServiceUnavailable, "config not initialized")
		return
	}
	cfg := mgr.Get()

	// Authorization before any work.
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if cfg.Admin.Token == "" || token != cfg.Admin.Token {
		writeEnvelopeError(w, http.StatusUnauthorized, "invalid admin token")
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelopeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	want := Nonce(cfg.Admin.NonceSecret, validateAction)
	if !hmac.Equal([]byte(req.Nonce), []byte(want)) {
		writeEnvelopeError(w, http.StatusUnauthorized, "invalid nonce")
		return
	}

	switch {
	case req.URL != "":
		e.validateURL(w, r, req.URL)
	case req.ID != "":
		e.validateItem(w, r, req.ID)
	default:
		writeEnvelopeError(w, http.StatusBadRequest, "either id or url is required")
	}
}

// validateItem assembles the item's schema object locally and runs the
// property checks on it.
func (e *ValidateSchemaEndpoint) validateItem(w http.ResponseWriter, r *http.Request, id string) {
	store := svcctx.ItemsFrom(r.Context())
	meta := svcctx.MetaFrom(r.Context())
	cfg := svcctx.ConfigFrom(r.Context()).Get()

	if store == nil {
		writeEnvelopeError(w, http.StatusServiceUnavailable, "content store not initialized")
		return
	}

	it, err := store.Get(id)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			writeEnvelopeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeEnvelopeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	in := schema.Input{
		Item:      it,
		Ancestors: store.Ancestors(it),
		View:      content.View{Kind: content.ViewSingular},
		Site:      cfg.SchemaSite(),
	}
	if meta != nil {
		in.Override = meta.GetString(it.ID, content.MetaSchemaCustom, "")
		in.DeclaredType = meta.GetString(it.ID, content.MetaSchemaType, it.SchemaType)
	} else {
		in.DeclaredType = it.SchemaType
	}

	obj, t := schema.AssembleItem(in)
	report := schema.Validate(obj, t)

	var schemaJSON string
	if obj != nil {
		raw, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			writeEnvelopeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		schemaJSON = string(raw)
	}

	recs := schema.Recommendations(report, t)
	if recs == nil {
		recs = []string{}
	}

	writeEnvelope(w, http.StatusOK, true, ValidationData{
		Title:           it.Title,
		Permalink:       it.URL,
		SchemaType:      string(t),
		SchemaJSON:      schemaJSON,
		Validation:      report,
		Recommendations: recs,
	})
}

// validateURL hands the page to the external rich-results service.
func (e *ValidateSchemaEndpoint) validateURL(w http.ResponseWriter, r *http.Request, pageURL string) {
	validator := svcctx.ValidatorFrom(r.Context())
	if validator == nil {
		writeEnvelopeError(w, http.StatusServiceUnavailable, "validator not configured")
		return
	}

	result, err := validator.Test(r.Context(), pageURL)
	if err != nil {
		if errors.Is(err, richresults.ErrUnavailable) {
			writeEnvelopeError(w, http.StatusBadGateway, "validation service unavailable")
			return
		}
		writeEnvelopeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeEnvelope(w, http.StatusOK, true, result)
}

func (e *ValidateSchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	var pageURL string
	var token string
	var secret string
	cmd := &cobra.Command{
		Use:   "validate [item-id]",
		Short: "Validate an item's structured data",
		Long: `Validate the generated schema.org output for an item, or test a live
page URL against the external rich-results service.

The admin token and nonce secret are read from PAGEMARK_ADMIN_TOKEN and
PAGEMARK_NONCE_SECRET unless given via flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("PAGEMARK_ADMIN_TOKEN")
			}
			if secret == "" {
				secret = os.Getenv("PAGEMARK_NONCE_SECRET")
			}

			req := ValidateRequest{
				URL:   pageURL,
				Nonce: Nonce(secret, validateAction),
			}
			if len(args) > 0 {
				req.ID = args[0]
			}
			if req.ID == "" && req.URL == "" {
				return fmt.Errorf("either an item id or --url is required")
			}

			client := api.NewClient(getServerURL()).WithToken(token)
			var resp Envelope
			if err := client.Post(cmd.Context(), "/api/schema/validate", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&pageURL, "url", "", "Live page URL to test against the rich-results service")
	cmd.Flags().StringVar(&token, "token", "", "Admin token (default: PAGEMARK_ADMIN_TOKEN)")
	cmd.Flags().StringVar(&secret, "nonce-secret", "", "Nonce secret (default: PAGEMARK_NONCE_SECRET)")
	return cmd
}
