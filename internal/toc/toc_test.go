package toc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileAll(content string) Result {
	opts := DefaultOptions()
	opts.MinHeadings = 1
	return Compile(content, opts)
}

func TestCompile_Nesting(t *testing.T) {
	// Levels 2,3,2,4,3 must yield [H2a[H3a], H2b[H4a, H3b]]: the h4 nests
	// one level under the second h2 even though it skips level 3.
	content := "<h2>A</h2><h3>B</h3><h2>C</h2><h4>D</h4><h3>E</h3>"
	res := compileAll(content)

	require.Len(t, res.Outline, 2)

	first := res.Outline[0]
	assert.Equal(t, "A", first.Text)
	require.Len(t, first.Children, 1)
	assert.Equal(t, "B", first.Children[0].Text)

	second := res.Outline[1]
	assert.Equal(t, "C", second.Text)
	require.Len(t, second.Children, 2)
	assert.Equal(t, "D", second.Children[0].Text)
	assert.Equal(t, 4, second.Children[0].Level)
	assert.Equal(t, "E", second.Children[1].Text)
}

func TestCompile_DocumentOrder(t *testing.T) {
	content := "<h2>One</h2><h3>Two</h3><h4>Three</h4><h2>Four</h2>"
	res := compileAll(content)

	var order []string
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			order = append(order, n.Text)
			walk(n.Children)
		}
	}
	walk(res.Outline)

	assert.Equal(t, []string{"One", "Two", "Three", "Four"}, order)
}

func TestCompile_IDDerivation(t *testing.T) {
	t.Run("slugified", func(t *testing.T) {
		res := compileAll("<h2>Getting Started: Part One!</h2>")
		require.Len(t, res.Headings, 1)
		assert.Equal(t, "toc-heading-getting-started-part-one", res.Headings[0].ID)
		assert.Contains(t, res.Content, `<h2 id="toc-heading-getting-started-part-one">`)
	})

	t.Run("collision_suffix", func(t *testing.T) {
		res := compileAll("<h2>Setup</h2><h3>Setup</h3><h2>Setup</h2>")
		require.Len(t, res.Headings, 3)
		assert.Equal(t, "toc-heading-setup", res.Headings[0].ID)
		assert.Equal(t, "toc-heading-setup-1", res.Headings[1].ID)
		assert.Equal(t, "toc-heading-setup-2", res.Headings[2].ID)
	})

	t.Run("existing_id_reused_verbatim", func(t *testing.T) {
		content := `<h2 id="intro" class="fancy">Introduction</h2>`
		res := compileAll(content)
		require.Len(t, res.Headings, 1)
		assert.Equal(t, "intro", res.Headings[0].ID)
		// No rewrite when the id already exists.
		assert.Equal(t, content, res.Content)
	})

	t.Run("empty_text_still_gets_id", func(t *testing.T) {
		res := compileAll("<h2><img src=\"x.png\"></h2>")
		require.Len(t, res.Headings, 1)
		assert.Equal(t, "", res.Headings[0].Text)
		assert.Equal(t, "toc-heading", res.Headings[0].ID)
	})

	t.Run("inner_markup_stripped", func(t *testing.T) {
		res := compileAll("<h2>The <em>Big</em> Picture</h2>")
		require.Len(t, res.Headings, 1)
		assert.Equal(t, "The Big Picture", res.Headings[0].Text)
		assert.Equal(t, "toc-heading-the-big-picture", res.Headings[0].ID)
	})
}

func TestCompile_Idempotent(t *testing.T) {
	content := "<h2>Alpha</h2><p>x</p><h2>Beta</h2>"
	first := compileAll(content)
	second := compileAll(first.Content)

	assert.Equal(t, first.Content, second.Content)
	require.Equal(t, len(first.Headings), len(second.Headings))
	for i := range first.Headings {
		assert.Equal(t, first.Headings[i].ID, second.Headings[i].ID)
	}
}

func TestCompile_BelowThreshold(t *testing.T) {
	opts := DefaultOptions() // MinHeadings 3

	cases := map[string]string{
		"zero": "<p>no headings at all</p>",
		"one":  "<h2>Only</h2><p>body</p>",
		"two":  "<h2>First</h2><h3>Second</h3>",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			res := Compile(content, opts)
			assert.True(t, res.Skipped)
			assert.Equal(t, content, res.Content)
			assert.Empty(t, res.Outline)
		})
	}
}

func TestCompile_MalformedHeadingsIgnored(t *testing.T) {
	res := compileAll("<h2>Open only<p>text</p><h3>Closed</h3>")
	// The unclosed h2 swallows up to the closing h3 under the tolerant
	// pattern; what matters is that compilation never fails and collects
	// only matchable headings.
	require.NotEmpty(t, res.Headings)
	for _, h := range res.Headings {
		assert.NotEmpty(t, h.ID)
	}
}

func TestCompile_H1AndH5Excluded(t *testing.T) {
	res := compileAll("<h1>Title</h1><h2>Section</h2><h5>Fine print</h5>")
	require.Len(t, res.Headings, 1)
	assert.Equal(t, "Section", res.Headings[0].Text)
}

func TestRenderHTML(t *testing.T) {
	res := compileAll("<h2>A</h2><h3>B</h3><h2>C</h2>")
	out := RenderHTML(res.Outline, DefaultOptions())

	assert.Contains(t, out, `href="#toc-heading-a"`)
	assert.Contains(t, out, `href="#toc-heading-b"`)
	assert.Contains(t, out, `href="#toc-heading-c"`)
	assert.Contains(t, out, "Table of Contents")
	assert.Contains(t, out, "pagemark-toc-toggle")
	// B is nested beneath A.
	assert.Less(t, strings.Index(out, "#toc-heading-a"), strings.Index(out, "pagemark-toc-list-child"))
	assert.Less(t, strings.Index(out, "pagemark-toc-list-child"), strings.Index(out, "#toc-heading-b"))
}

func TestRenderHTML_Empty(t *testing.T) {
	assert.Equal(t, "", RenderHTML(nil, DefaultOptions()))
}

func TestRenderHTML_Options(t *testing.T) {
	res := compileAll("<h2>A</h2>")

	opts := DefaultOptions()
	opts.WidthPercent = 75
	opts.Title = "On this page"
	opts.ShowToggle = false

	out := RenderHTML(res.Outline, opts)
	assert.Contains(t, out, "width: 75%")
	assert.Contains(t, out, "On this page")
	assert.NotContains(t, out, "pagemark-toc-toggle")
}

func TestInsert(t *testing.T) {
	block := `<div class="pagemark-toc">toc</div>`

	t.Run("top", func(t *testing.T) {
		out := Insert("<p>first</p><p>second</p>", block, PositionTop)
		assert.True(t, strings.HasPrefix(out, block))
	})

	t.Run("after_first_paragraph", func(t *testing.T) {
		out := Insert("<p>first</p><p>second</p>", block, PositionAfterFirstParagraph)
		assert.Equal(t, "<p>first</p>"+block+"<p>second</p>", out)
	})

	t.Run("fallback_to_top", func(t *testing.T) {
		out := Insert("<div>no paragraphs</div>", block, PositionAfterFirstParagraph)
		assert.True(t, strings.HasPrefix(out, block))
	})

	t.Run("empty_block", func(t *testing.T) {
		assert.Equal(t, "<p>x</p>", Insert("<p>x</p>", "", PositionTop))
	})
}
