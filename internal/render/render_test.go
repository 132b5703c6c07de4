package render

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asmlabs/pagemark/internal/cache"
	"github.com/asmlabs/pagemark/internal/config"
	"github.com/asmlabs/pagemark/internal/content"
)

const threeHeadings = "<h2>One</h2><p>a</p><h2>Two</h2><p>b</p><h2>Three</h2><p>c</p>"

func testContext(t *testing.T) Context {
	t.Helper()
	meta, err := content.NewMetaStore(filepath.Join(t.TempDir(), "meta.yaml"))
	require.NoError(t, err)
	return Context{
		Item: &content.Item{
			ID: "post-1", Kind: content.KindPost,
			Title: "Post One", URL: "https://example.com/post-1",
			Author: "Jane", Excerpt: "about things",
		},
		View:   content.View{Kind: content.ViewSingular},
		Config: config.DefaultConfig(),
		Meta:   meta,
	}
}

func TestPipelineOrder(t *testing.T) {
	var calls []string
	p := Pipeline{
		func(_ Context, body string) string { calls = append(calls, "first"); return body + "1" },
		func(_ Context, body string) string { calls = append(calls, "second"); return body + "2" },
	}
	out := p.Apply(Context{}, "x")
	assert.Equal(t, "x12", out)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestTOCFilter(t *testing.T) {
	filter := TOCFilter()

	t.Run("injects_toc", func(t *testing.T) {
		ctx := testContext(t)
		out := filter(ctx, threeHeadings)
		assert.Contains(t, out, "pagemark-toc")
		assert.Contains(t, out, `id="toc-heading-one"`)
	})

	t.Run("below_threshold_untouched", func(t *testing.T) {
		ctx := testContext(t)
		body := "<h2>Only</h2><p>a</p>"
		assert.Equal(t, body, filter(ctx, body))
	})

	t.Run("non_singular_untouched", func(t *testing.T) {
		ctx := testContext(t)
		ctx.View = content.View{Kind: content.ViewCategory, Term: "news"}
		assert.Equal(t, threeHeadings, filter(ctx, threeHeadings))
	})

	t.Run("site_disable", func(t *testing.T) {
		ctx := testContext(t)
		ctx.Config.TOC.Enable = false
		assert.Equal(t, threeHeadings, filter(ctx, threeHeadings))
	})

	t.Run("per_item_disable", func(t *testing.T) {
		ctx := testContext(t)
		require.NoError(t, ctx.Meta.Set("post-1", content.MetaTOCDisable, true))
		assert.Equal(t, threeHeadings, filter(ctx, threeHeadings))
	})
}

func TestSchemaEmitter(t *testing.T) {
	t.Run("emits_script_tag", func(t *testing.T) {
		ctx := testContext(t)
		out := SchemaEmitter(nil)(ctx)
		assert.True(t, strings.HasPrefix(out, `<script type="application/ld+json">`))
		assert.Contains(t, out, `"Article"`)
	})

	t.Run("schema_disabled", func(t *testing.T) {
		ctx := testContext(t)
		ctx.Config.Schema.Enable = false
		assert.Equal(t, "", SchemaEmitter(nil)(ctx))
	})

	t.Run("per_item_type_selection", func(t *testing.T) {
		ctx := testContext(t)
		require.NoError(t, ctx.Meta.Set("post-1", content.MetaSchemaType, "none"))
		assert.Equal(t, "", SchemaEmitter(nil)(ctx))
	})

	t.Run("override_applied", func(t *testing.T) {
		ctx := testContext(t)
		require.NoError(t, ctx.Meta.Set("post-1", content.MetaSchemaCustom, `{"headline":"Override"}`))
		out := SchemaEmitter(nil)(ctx)
		assert.Contains(t, out, `"Override"`)
	})

	t.Run("cached_between_calls", func(t *testing.T) {
		ctx := testContext(t)
		c := cache.New()
		emit := SchemaEmitter(c)

		first := emit(ctx)
		require.NotEmpty(t, first)
		assert.Equal(t, 1, c.Len())

		// A changed title is not visible until invalidation.
		ctx.Item.Title = "Renamed"
		assert.Equal(t, first, emit(ctx))

		InvalidateItem(c, "post-1")
		second := emit(ctx)
		assert.NotEqual(t, first, second)
		assert.Contains(t, second, "Renamed")
	})
}

func TestHeadPipeline(t *testing.T) {
	p := HeadPipeline{
		func(Context) string { return "<meta a>" },
		func(Context) string { return "" },
		func(Context) string { return "<meta b>" },
	}
	assert.Equal(t, "<meta a>\n<meta b>", p.Render(Context{}))
}
