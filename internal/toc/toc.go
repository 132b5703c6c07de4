// Package toc compiles a table of contents from rendered HTML content.
//
// The compiler scans for h2-h4 elements in document order, assigns each one a
// stable fragment id (reusing an existing id attribute when present), and
// builds a nested outline that mirrors the heading hierarchy. Content is
// returned with derived ids written back into the matched elements; nothing
// else in the input is touched.
package toc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Position controls where the rendered TOC block is inserted.
type Position string

const (
	// PositionTop prepends the TOC before all content.
	PositionTop Position = "top"
	// PositionAfterFirstParagraph injects the TOC after the first closing
	// paragraph tag, falling back to top when none is found.
	PositionAfterFirstParagraph Position = "after-first-p"
)

// DefaultIDPrefix namespaces derived heading ids.
const DefaultIDPrefix = "toc-heading"

// Options configures a compile pass.
type Options struct {
	// MinHeadings is the minimum number of headings required before a TOC
	// is produced. Below this the compile is skipped.
	MinHeadings int
	// Title is the visible heading of the rendered TOC block.
	Title string
	// Position selects the insertion point for the rendered block.
	Position Position
	// WidthPercent is the rendered container width (100, 75 or 50).
	WidthPercent int
	// ShowToggle renders a collapse button in the TOC header.
	ShowToggle bool
	// IDPrefix namespaces derived ids. Existing id attributes are reused
	// verbatim and never prefixed.
	IDPrefix string
}

// DefaultOptions returns the compiler defaults.
func DefaultOptions() Options {
	return Options{
		MinHeadings:  3,
		Title:        "Table of Contents",
		Position:     PositionTop,
		WidthPercent: 100,
		ShowToggle:   true,
		IDPrefix:     DefaultIDPrefix,
	}
}

// Heading is one extracted heading.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Node is an outline tree node. Children are headings with a strictly
// greater level that appear before the next heading of equal or lesser
// level. Pre-order traversal reproduces document order.
type Node struct {
	Heading
	Children []*Node `json:"children,omitempty"`
}

// Result is the output of one compile pass.
type Result struct {
	// Content is the (possibly id-annotated) content. When Skipped is set
	// this is the input unchanged.
	Content  string    `json:"content"`
	Headings []Heading `json:"headings,omitempty"`
	Outline  []*Node   `json:"outline,omitempty"`
	Skipped  bool      `json:"skipped"`
}

var (
	headingRe = regexp.MustCompile(`(?is)<h([2-4])([^>]*)>(.*?)</h[2-4]\s*>`)
	idAttrRe  = regexp.MustCompile(`(?i)\bid\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	slugRe    = regexp.MustCompile(`[^a-z0-9]+`)
)

// Compile scans content for h2-h4 headings, assigns fragment ids and builds
// the outline. Headings whose markup does not match the tolerant pattern are
// simply not collected. When fewer than opts.MinHeadings are found the input
// is returned unchanged with an empty outline.
func Compile(content string, opts Options) Result {
	if opts.IDPrefix == "" {
		opts.IDPrefix = DefaultIDPrefix
	}

	annotated := content
	seen := make(map[string]bool)
	var headings []Heading

	for _, m := range headingRe.FindAllStringSubmatch(content, -1) {
		level, _ := strconv.Atoi(m[1])
		attrs := m[2]
		inner := m[3]
		text := stripTags(inner)

		id, existing := existingID(attrs)
		if !existing {
			id = uniqueID(deriveID(opts.IDPrefix, text), seen)
			rewritten := fmt.Sprintf(`<h%d id=%q%s>%s</h%d>`, level, id, attrs, inner, level)
			annotated = strings.Replace(annotated, m[0], rewritten, 1)
		}
		seen[id] = true

		headings = append(headings, Heading{Level: level, Text: text, ID: id})
	}

	if len(headings) < opts.MinHeadings {
		return Result{Content: content, Headings: headings, Skipped: true}
	}

	return Result{
		Content:  annotated,
		Headings: headings,
		Outline:  buildOutline(headings),
	}
}

// existingID extracts an id attribute from raw heading attributes. A reused
// id is taken verbatim with no collision check.
func existingID(attrs string) (string, bool) {
	m := idAttrRe.FindStringSubmatch(attrs)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// deriveID slugifies heading text under the configured namespace prefix.
// A heading with no extractable text still gets an id.
func deriveID(prefix, text string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(text), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return prefix
	}
	return prefix + "-" + slug
}

// uniqueID disambiguates a candidate id against ids already assigned
// earlier in the same pass by appending -1, -2, ... until unique.
func uniqueID(candidate string, seen map[string]bool) string {
	if !seen[candidate] {
		return candidate
	}
	for i := 1; ; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		if !seen[next] {
			return next
		}
	}
}

// stripTags reduces heading inner markup to its plain text.
func stripTags(inner string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(inner))
	if err != nil {
		return strings.TrimSpace(inner)
	}
	return strings.TrimSpace(doc.Text())
}

// buildOutline nests a flat, level-tagged heading sequence. A stack of open
// scopes is kept; each heading closes scopes until the top of the stack is
// shallower than itself, then attaches there. An h4 directly following an
// h2 therefore nests one level under it, not two.
func buildOutline(headings []Heading) []*Node {
	var roots []*Node
	var stack []*Node

	for _, h := range headings {
		n := &Node{Heading: h}
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
		}
		stack = append(stack, n)
	}

	return roots
}
