package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/home"
	"github.com/asmlabs/pagemark/internal/server/endpoints"

	cfgpkg "github.com/asmlabs/pagemark/internal/config"
)

const testConfigYAML = `site:
  name: Test Site
  url: https://example.test
toc:
  enable: true
  min_headings: 3
schema:
  enable: true
  entity: organization
  cache_ttl: 12h
  default_types:
    post: Article
    page: WebPage
    product: Product
admin:
  token: test-token
  nonce_secret: test-secret
`

func writeItem(t *testing.T, dir string, it *content.Item) {
	t.Helper()
	data, err := yaml.Marshal(it)
	if err != nil {
		t.Fatalf("marshal item: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, it.ID+".yaml"), data, 0o644); err != nil {
		t.Fatalf("write item: %v", err)
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home.New: %v", err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}

	writeItem(t, h.ItemsPath(), &content.Item{
		ID:    "hello",
		Kind:  content.KindPost,
		Title: "Hello World",
		URL:   "https://example.test/hello",
		Body: `<p>Intro paragraph.</p>` +
			`<h2>First Section</h2><p>One.</p>` +
			`<h2>Second Section</h2><p>Two.</p>` +
			`<h2>Third Section</h2><p>Three.</p>`,
	})
	writeItem(t, h.ItemsPath(), &content.Item{
		ID:    "about",
		Kind:  content.KindPage,
		Title: "About",
		URL:   "https://example.test/about",
		Body:  `<p>Just one heading.</p><h2>Only Section</h2>`,
	})

	if err := os.WriteFile(h.ConfigPath(), []byte(testConfigYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	mgr, err := cfgpkg.NewManager(h.ConfigPath())
	if err != nil {
		t.Fatalf("config.NewManager: %v", err)
	}

	srv, err := New(Config{
		Home:          h,
		ConfigManager: mgr,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response (%d): %v\n%s", rec.Code, err, rec.Body.String())
		}
	}
	return rec
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	var resp endpoints.HealthResponse
	rec := doJSON(t, srv, http.MethodGet, "/health", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}

	rec = doJSON(t, srv, http.MethodGet, "/ready", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /ready, got %d", rec.Code)
	}
}

func TestServer_Status(t *testing.T) {
	srv := newTestServer(t)

	var resp endpoints.StatusResponse
	rec := doJSON(t, srv, http.MethodGet, "/status", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.Items != 2 {
		t.Errorf("expected 2 items, got %d", resp.Items)
	}
	if !resp.Config.TOCEnabled || !resp.Config.SchemaEnabled {
		t.Errorf("expected both features enabled: %+v", resp.Config)
	}
}

func TestServer_ListItems(t *testing.T) {
	srv := newTestServer(t)

	var resp endpoints.ListItemsResponse
	rec := doJSON(t, srv, http.MethodGet, "/api/items", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}

	t.Run("kind filter", func(t *testing.T) {
		var filtered endpoints.ListItemsResponse
		doJSON(t, srv, http.MethodGet, "/api/items?kind=post", nil, &filtered)
		if len(filtered.Items) != 1 || filtered.Items[0].ID != "hello" {
			t.Errorf("unexpected filter result: %+v", filtered.Items)
		}
	})
}

func TestServer_GetItem(t *testing.T) {
	srv := newTestServer(t)

	var it content.Item
	rec := doJSON(t, srv, http.MethodGet, "/api/items/hello", nil, &it)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if it.Title != "Hello World" {
		t.Errorf("expected title Hello World, got %s", it.Title)
	}

	t.Run("not found", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/items/missing", nil, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestServer_Render(t *testing.T) {
	srv := newTestServer(t)

	t.Run("item with enough headings gets a TOC", func(t *testing.T) {
		var resp endpoints.RenderResponse
		rec := doJSON(t, srv, http.MethodPost, "/api/render",
			endpoints.RenderRequest{ID: "hello"}, &resp)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !resp.TOCApplied {
			t.Error("expected TOC to be applied")
		}
		if !strings.Contains(resp.Content, "pagemark-toc") {
			t.Error("expected TOC markup in content")
		}
		if !strings.Contains(resp.Content, `id="toc-heading-first-section"`) {
			t.Errorf("expected derived heading id in content:\n%s", resp.Content)
		}
		if len(resp.Outline) != 3 {
			t.Errorf("expected 3 outline roots, got %d", len(resp.Outline))
		}
	})

	t.Run("below threshold passes through", func(t *testing.T) {
		var resp endpoints.RenderResponse
		doJSON(t, srv, http.MethodPost, "/api/render",
			endpoints.RenderRequest{ID: "about"}, &resp)
		if resp.TOCApplied {
			t.Error("expected no TOC below the heading threshold")
		}
		if !resp.Skipped {
			t.Error("expected skipped flag below the heading threshold")
		}
	})

	t.Run("ad-hoc content", func(t *testing.T) {
		body := `<h2>A</h2><h2>B</h2><h2>C</h2>`
		var resp endpoints.RenderResponse
		doJSON(t, srv, http.MethodPost, "/api/render",
			endpoints.RenderRequest{Content: body}, &resp)
		if !resp.TOCApplied {
			t.Error("expected TOC on ad-hoc content")
		}
	})

	t.Run("missing input", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/render",
			endpoints.RenderRequest{}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestServer_Head(t *testing.T) {
	srv := newTestServer(t)

	var resp endpoints.HeadResponse
	rec := doJSON(t, srv, http.MethodGet, "/api/head/hello", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(resp.Head, `application/ld+json`) {
		t.Errorf("expected JSON-LD script tag, got: %s", resp.Head)
	}
	if !strings.Contains(resp.Head, `"BlogPosting"`) && !strings.Contains(resp.Head, `"Article"`) {
		t.Errorf("expected an article-family item object, got: %s", resp.Head)
	}
}

func TestServer_GetSchema(t *testing.T) {
	srv := newTestServer(t)

	var graph []map[string]any
	rec := doJSON(t, srv, http.MethodGet, "/api/schema/hello", nil, &graph)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(graph) < 3 {
		t.Fatalf("expected at least 3 graph objects, got %d", len(graph))
	}
	if graph[0]["@type"] != "WebSite" {
		t.Errorf("expected WebSite first, got %v", graph[0]["@type"])
	}
}

func TestServer_Settings(t *testing.T) {
	srv := newTestServer(t)

	t.Run("set and get", func(t *testing.T) {
		var resp endpoints.SettingResponse
		rec := doJSON(t, srv, http.MethodPut, "/api/settings/hello/toc.disable",
			endpoints.UpdateSettingRequest{Value: true}, &resp)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		rec = doJSON(t, srv, http.MethodGet, "/api/settings/hello/toc.disable", nil, &resp)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if v, ok := resp.Entry.Value.(bool); !ok || !v {
			t.Errorf("expected true value, got %v", resp.Entry.Value)
		}
	})

	t.Run("disable flag suppresses the TOC", func(t *testing.T) {
		var resp endpoints.RenderResponse
		doJSON(t, srv, http.MethodPost, "/api/render",
			endpoints.RenderRequest{ID: "hello"}, &resp)
		if resp.TOCApplied {
			t.Error("expected no TOC after setting toc.disable")
		}
	})

	t.Run("delete restores default", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodDelete, "/api/settings/hello/toc.disable", nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		rec = doJSON(t, srv, http.MethodGet, "/api/settings/hello/toc.disable", nil, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", rec.Code)
		}
	})

	t.Run("invalid key rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/settings/hello/bad%20key!",
			endpoints.UpdateSettingRequest{Value: 1}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestServer_ValidateSchema(t *testing.T) {
	srv := newTestServer(t)
	nonce := endpoints.Nonce("test-secret", "validate-schema")

	t.Run("missing token rejected", func(t *testing.T) {
		var resp endpoints.Envelope
		rec := doJSON(t, srv, http.MethodPost, "/api/schema/validate",
			endpoints.ValidateRequest{ID: "hello", Nonce: nonce}, &resp)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if resp.Success {
			t.Error("expected success=false")
		}
	})

	t.Run("bad nonce rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/schema/validate",
			strings.NewReader(`{"id":"hello","nonce":"bogus"}`))
		req.Header.Set("Authorization", "Bearer test-token")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid request", func(t *testing.T) {
		raw, _ := json.Marshal(endpoints.ValidateRequest{ID: "hello", Nonce: nonce})
		req := httptest.NewRequest(http.MethodPost, "/api/schema/validate", bytes.NewReader(raw))
		req.Header.Set("Authorization", "Bearer test-token")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Success bool                     `json:"success"`
			Data    endpoints.ValidationData `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.Success {
			t.Error("expected success=true")
		}
		if resp.Data.Title != "Hello World" {
			t.Errorf("expected item title, got %s", resp.Data.Title)
		}
		if resp.Data.Validation.Status == "" {
			t.Error("expected a validation status")
		}
		if resp.Data.SchemaJSON == "" {
			t.Error("expected assembled schema JSON")
		}
	})
}

func TestServer_ExportMarkdown(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/items/hello/markdown", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "# Hello World") {
		t.Errorf("expected title heading, got: %q", body)
	}
	if !strings.Contains(body, "First Section") {
		t.Errorf("expected section text in markdown: %q", body)
	}
}

func TestServer_SaveInvalidatesSchemaCache(t *testing.T) {
	srv := newTestServer(t)

	// Prime the cache.
	var first endpoints.HeadResponse
	doJSON(t, srv, http.MethodGet, "/api/head/hello", nil, &first)

	it, err := srv.Items().Get("hello")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	it.Title = "Renamed"
	if err := srv.Items().Save(it); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var second endpoints.HeadResponse
	doJSON(t, srv, http.MethodGet, "/api/head/hello", nil, &second)
	if !strings.Contains(second.Head, "Renamed") {
		t.Error("expected fresh schema output after save")
	}
}
