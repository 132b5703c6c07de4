package schema

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asmlabs/pagemark/internal/content"
)

func testSite() Site {
	return Site{
		Name:           "Example Site",
		URL:            "https://example.com",
		Description:    "An example site",
		Entity:         EntityOrganization,
		EntityName:     "Example Org",
		EntityLogo:     "https://example.com/logo.png",
		SocialProfiles: []string{"https://twitter.com/example"},
		DefaultTypes: map[content.Kind]string{
			content.KindPost:    "Article",
			content.KindProduct: "Product",
		},
	}
}

func articleItem() *content.Item {
	return &content.Item{
		ID:         "hello",
		Kind:       content.KindPost,
		Title:      "Hello World",
		Excerpt:    "A first post",
		URL:        "https://example.com/hello",
		Author:     "Jane Doe",
		Image:      "https://example.com/hello.jpg",
		Published:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Modified:   time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
		Categories: []string{"news"},
		Tags:       []string{"go", "web"},
	}
}

func TestResolveType(t *testing.T) {
	site := testSite()

	assert.Equal(t, TypeRecipe, site.ResolveType("Recipe", content.KindPost))
	assert.Equal(t, TypeArticle, site.ResolveType("", content.KindPost))
	assert.Equal(t, TypeProduct, site.ResolveType("", content.KindProduct))
	assert.Equal(t, TypeWebPage, site.ResolveType("", content.KindPage))
	assert.Equal(t, TypeWebPage, site.ResolveType("NotAThing", content.KindPost))
	assert.Equal(t, TypeNone, site.ResolveType("none", content.KindPost))
}

func TestAssemble_GraphOrder(t *testing.T) {
	g := Assemble(Input{
		Item: articleItem(),
		View: content.View{Kind: content.ViewSingular},
		Site: testSite(),
	})

	require.Len(t, g, 4)
	assert.Equal(t, "WebSite", g[0].Type())
	assert.Equal(t, "Organization", g[1].Type())
	assert.Equal(t, "BreadcrumbList", g[2].Type())
	assert.Equal(t, "Article", g[3].Type())

	for _, o := range g {
		assert.Equal(t, Context, o["@context"])
	}
}

func TestAssemble_FrontPageSkipsBreadcrumbs(t *testing.T) {
	g := Assemble(Input{
		Item: articleItem(),
		View: content.View{Kind: content.ViewFront},
		Site: testSite(),
	})
	for _, o := range g {
		assert.NotEqual(t, "BreadcrumbList", o.Type())
	}
}

func TestAssemble_NoneDisables(t *testing.T) {
	g := Assemble(Input{
		Item:         articleItem(),
		View:         content.View{Kind: content.ViewSingular},
		Site:         testSite(),
		DeclaredType: "none",
	})
	assert.Empty(t, g)
	assert.Equal(t, "", g.ScriptTag())
}

func TestArticleBuilder(t *testing.T) {
	t.Run("fully_populated", func(t *testing.T) {
		obj, typ := AssembleItem(Input{Item: articleItem(), Site: testSite()})
		assert.Equal(t, TypeArticle, typ)
		assert.Equal(t, "Hello World", obj["headline"])
		assert.Equal(t, "A first post", obj["description"])
		assert.Equal(t, "2025-03-01T10:00:00Z", obj["datePublished"])
		assert.Equal(t, "go, web", obj["keywords"])

		author, ok := obj["author"].(Object)
		require.True(t, ok)
		assert.Equal(t, "Jane Doe", author["name"])

		publisher, ok := obj["publisher"].(Object)
		require.True(t, ok)
		assert.Equal(t, "Example Org", publisher["name"])
	})

	t.Run("absent_fields_omitted", func(t *testing.T) {
		// No image, no excerpt, no body: image and description must be
		// omitted entirely, never emitted as empty or null.
		it := &content.Item{
			ID:    "bare",
			Kind:  content.KindPost,
			Title: "Bare",
			URL:   "https://example.com/bare",
		}
		obj, _ := AssembleItem(Input{Item: it, Site: testSite()})
		_, hasImage := obj["image"]
		_, hasDesc := obj["description"]
		assert.False(t, hasImage)
		assert.False(t, hasDesc)
		_, hasAuthor := obj["author"]
		assert.False(t, hasAuthor)
		_, hasPublished := obj["datePublished"]
		assert.False(t, hasPublished)
	})
}

func TestOverrideMerge(t *testing.T) {
	t.Run("shallow_merge_override_wins", func(t *testing.T) {
		generated := Object{"name": "A", "url": "u"}
		merged := mergeOverride(generated, map[string]any{"name": "B", "extra": "x"})
		assert.Equal(t, Object{"name": "B", "url": "u", "extra": "x"}, merged)
	})

	t.Run("well_formed_override_applied", func(t *testing.T) {
		obj, _ := AssembleItem(Input{
			Item:     articleItem(),
			Site:     testSite(),
			Override: `{"headline":"Overridden","custom":"yes"}`,
		})
		assert.Equal(t, "Overridden", obj["headline"])
		assert.Equal(t, "yes", obj["custom"])
		// Untouched generated keys survive.
		assert.Equal(t, "https://example.com/hello", obj["url"])
	})

	t.Run("malformed_override_ignored", func(t *testing.T) {
		for name, raw := range map[string]string{
			"invalid_json":   `{"name": `,
			"array":          `[1,2,3]`,
			"scalar":         `"just a string"`,
			"bad_type_field": `{"@type": 42}`,
			"empty":          ``,
			"whitespace":     "  \n ",
		} {
			obj, _ := AssembleItem(Input{
				Item:     articleItem(),
				Site:     testSite(),
				Override: raw,
			})
			assert.Equal(t, "Hello World", obj["headline"], name)
		}
	})
}

func TestBreadcrumbs(t *testing.T) {
	t.Run("post_trail_positions", func(t *testing.T) {
		g := Assemble(Input{
			Item: articleItem(),
			View: content.View{Kind: content.ViewSingular},
			Site: testSite(),
		})
		bc := g[2]
		elements, ok := bc["itemListElement"].([]any)
		require.True(t, ok)
		// Home -> Posts -> news -> item
		require.Len(t, elements, 4)
		for i, el := range elements {
			o := el.(Object)
			assert.Equal(t, i+1, o["position"])
		}
		first := elements[0].(Object)
		assert.Equal(t, "Home", first["name"])
		last := elements[len(elements)-1].(Object)
		assert.Equal(t, "Hello World", last["name"])
	})

	t.Run("page_parent_chain", func(t *testing.T) {
		it := &content.Item{
			ID: "install", Kind: content.KindPage, Title: "Install",
			URL: "https://example.com/docs/guide/install",
		}
		g := Assemble(Input{
			Item: it,
			Ancestors: []content.Ref{
				{Title: "Docs", URL: "https://example.com/docs"},
				{Title: "Guide", URL: "https://example.com/docs/guide"},
			},
			View: content.View{Kind: content.ViewSingular},
			Site: testSite(),
		})
		bc := g[2]
		elements := bc["itemListElement"].([]any)
		require.Len(t, elements, 4)
		assert.Equal(t, "Docs", elements[1].(Object)["name"])
		assert.Equal(t, "Guide", elements[2].(Object)["name"])
		assert.Equal(t, "Install", elements[3].(Object)["name"])
	})

	t.Run("archive_prefixes", func(t *testing.T) {
		cases := map[content.ViewKind]int{
			content.ViewCategory: 2,
			content.ViewTag:      2,
			content.ViewDate:     3,
			content.ViewAuthor:   3,
			content.ViewSearch:   2,
		}
		for kind, wantLen := range cases {
			g := Assemble(Input{
				View: content.View{Kind: kind, Term: "term"},
				Site: testSite(),
			})
			var bc Object
			for _, o := range g {
				if o.Type() == "BreadcrumbList" {
					bc = o
				}
			}
			require.NotNil(t, bc, string(kind))
			elements := bc["itemListElement"].([]any)
			assert.Len(t, elements, wantLen, string(kind))
		}
	})
}

func TestFAQExtraction(t *testing.T) {
	it := &content.Item{
		ID: "faq", Kind: content.KindPage, Title: "FAQ",
		URL:        "https://example.com/faq",
		SchemaType: "FAQPage",
		Body: `<h2>What is it?</h2><p>A thing.</p>` +
			`<h2>How much?</h2><p>Free.</p>` +
			`<h2>No answer here</h2><div>not a paragraph</div>`,
	}
	obj, typ := AssembleItem(Input{Item: it, Site: testSite(), DeclaredType: it.SchemaType})
	assert.Equal(t, TypeFAQPage, typ)

	qa, ok := obj["mainEntity"].([]any)
	require.True(t, ok)
	require.Len(t, qa, 2)

	first := qa[0].(Object)
	assert.Equal(t, "What is it?", first["name"])
	answer := first["acceptedAnswer"].(Object)
	assert.Equal(t, "A thing.", answer["text"])
}

func TestValidate(t *testing.T) {
	t.Run("recipe_missing_required", func(t *testing.T) {
		obj := Object{
			"@context":         Context,
			"@type":            "Recipe",
			"name":             "Pasta",
			"url":              "https://example.com/pasta",
			"recipeIngredient": []string{"pasta"},
		}
		report := Validate(obj, TypeRecipe)
		assert.Equal(t, StatusError, report.Status)
		assert.Contains(t, report.Issues, "Missing required property: recipeInstructions")
		// Missing recommended totalTime is reported without downgrading
		// the error status.
		assert.Contains(t, report.Issues, "Missing recommended property: totalTime")
		assert.Contains(t, report.Passed, "name")
		assert.Contains(t, report.Passed, "recipeIngredient")
	})

	t.Run("complete_object_passes", func(t *testing.T) {
		obj, _ := AssembleItem(Input{Item: articleItem(), Site: testSite()})
		report := Validate(obj, TypeArticle)
		assert.Equal(t, StatusSuccess, report.Status)
		assert.Empty(t, report.Issues)
		assert.NotEmpty(t, report.Passed)
	})

	t.Run("missing_recommended_warns", func(t *testing.T) {
		obj := Object{
			"@context": Context, "@type": "WebPage",
			"name": "X", "url": "u",
		}
		report := Validate(obj, TypeWebPage)
		assert.Equal(t, StatusWarning, report.Status)
		assert.Contains(t, report.Issues, "Missing recommended property: description")
		assert.Contains(t, report.Issues, "Missing recommended property: image")
	})

	t.Run("none_short_circuits", func(t *testing.T) {
		report := Validate(nil, TypeNone)
		assert.Equal(t, StatusWarning, report.Status)
		require.Len(t, report.Issues, 1)
		assert.Contains(t, report.Issues[0], "disabled")
		assert.Empty(t, report.Passed)
	})
}

func TestRecommendations(t *testing.T) {
	report := Report{
		Status: StatusWarning,
		Issues: []string{
			"Missing recommended property: dateModified",
			"Missing required property: headline",
		},
	}
	recs := Recommendations(report, TypeArticle)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "dateModified")
}

func TestGraphRoundTrip(t *testing.T) {
	g := Assemble(Input{
		Item: articleItem(),
		View: content.View{Kind: content.ViewSingular},
		Site: testSite(),
	})

	data, err := g.JSON()
	require.NoError(t, err)

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &parsed))
	require.Len(t, parsed, len(g))
	for i := range g {
		assert.Equal(t, g[i].Type(), parsed[i]["@type"])
		assert.Len(t, parsed[i], len(g[i]))
	}
}

func TestScriptTag(t *testing.T) {
	t.Run("empty_graph_emits_nothing", func(t *testing.T) {
		assert.Equal(t, "", Graph(nil).ScriptTag())
	})

	t.Run("wraps_json_array", func(t *testing.T) {
		g := Assemble(Input{
			Item: articleItem(),
			View: content.View{Kind: content.ViewSingular},
			Site: testSite(),
		})
		tag := g.ScriptTag()
		assert.True(t, strings.HasPrefix(tag, `<script type="application/ld+json">[`))
		assert.True(t, strings.HasSuffix(tag, `]</script>`))
	})
}
