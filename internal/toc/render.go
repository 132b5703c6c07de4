package toc

import (
	"fmt"
	"html"
	"strings"
)

// RenderHTML renders the outline as a navigational list block. Nesting in
// the markup matches the outline tree exactly: one li per heading with an
// anchor link to its fragment id, child headings in a nested ol.
func RenderHTML(outline []*Node, opts Options) string {
	if len(outline) == 0 {
		return ""
	}

	width := opts.WidthPercent
	if width <= 0 {
		width = 100
	}
	title := opts.Title
	if title == "" {
		title = "Table of Contents"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="pagemark-toc" style="width: %d%%;">`, width)
	b.WriteString(`<div class="pagemark-toc-header">`)
	fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(title))
	if opts.ShowToggle {
		b.WriteString(`<button class="pagemark-toc-toggle" aria-expanded="true" aria-label="Toggle Table of Contents"></button>`)
	}
	b.WriteString(`</div>`)
	b.WriteString(`<nav class="pagemark-toc-nav">`)
	renderList(&b, outline, true)
	b.WriteString(`</nav>`)
	b.WriteString(`</div>`)
	return b.String()
}

func renderList(b *strings.Builder, nodes []*Node, top bool) {
	if top {
		b.WriteString(`<ol class="pagemark-toc-list">`)
	} else {
		b.WriteString(`<ol class="pagemark-toc-list-child">`)
	}
	for _, n := range nodes {
		fmt.Fprintf(b, `<li class="pagemark-toc-item pagemark-toc-level-%d">`, n.Level)
		fmt.Fprintf(b, `<a href="#%s">%s</a>`, html.EscapeString(n.ID), html.EscapeString(n.Text))
		if len(n.Children) > 0 {
			renderList(b, n.Children, false)
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ol>`)
}

// Insert places the rendered TOC block into content at the configured
// position. When the after-first-paragraph boundary is not found the block
// is prepended.
func Insert(content, tocHTML string, pos Position) string {
	if tocHTML == "" {
		return content
	}
	if pos == PositionAfterFirstParagraph {
		if i := strings.Index(content, "</p>"); i != -1 {
			i += len("</p>")
			return content[:i] + tocHTML + content[i:]
		}
	}
	return tocHTML + content
}
