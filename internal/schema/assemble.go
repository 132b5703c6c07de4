package schema

import (
	"github.com/asmlabs/pagemark/internal/content"
)

// Input is one assembly request: an immutable snapshot of the item, its
// ancestry, the view being rendered and the site entity configuration.
type Input struct {
	Item *content.Item
	// Ancestors is the item's hierarchical parent chain, outermost first.
	Ancestors []content.Ref
	View content.View
	Site Site
	// Override is the raw per-item custom JSON text, empty when unset.
	Override string
	// DeclaredType is the per-item schema type selection, empty when the
	// site default for the item's kind applies.
	DeclaredType string
}

// Assemble produces the full schema graph for one request: the site-wide
// WebSite and entity objects, a BreadcrumbList for any non-front view, and
// the item-specific object, in that order. A well-formed custom override is
// shallow-merged over the generated item object (override keys win); a
// malformed one is silently ignored.
func Assemble(in Input) Graph {
	t := in.Site.ResolveType(in.DeclaredType, itemKind(in.Item))
	if t == TypeNone {
		return nil
	}

	var g Graph
	g = append(g, in.Site.website())
	g = append(g, in.Site.entity())
	if in.View.Kind != content.ViewFront {
		if bc := breadcrumbs(in); bc != nil {
			g = append(g, bc)
		}
	}

	if in.Item != nil {
		obj := buildItem(t, in.Item, in.Site)
		if override, ok := parseOverride(in.Override); ok {
			obj = mergeOverride(obj, override)
		}
		g = append(g, obj)
	}

	return g
}

// AssembleItem builds only the item-specific object, with override merge
// applied. Used by the admin validator, which inspects the item object in
// isolation.
func AssembleItem(in Input) (Object, Type) {
	t := in.Site.ResolveType(in.DeclaredType, itemKind(in.Item))
	if t == TypeNone || in.Item == nil {
		return nil, t
	}
	obj := buildItem(t, in.Item, in.Site)
	if override, ok := parseOverride(in.Override); ok {
		obj = mergeOverride(obj, override)
	}
	return obj, t
}

func itemKind(it *content.Item) content.Kind {
	if it == nil {
		return ""
	}
	return it.Kind
}

// breadcrumbs walks from a synthetic Home root through the view's logical
// ancestry to the terminal node, assigning sequential 1-based positions.
func breadcrumbs(in Input) Object {
	crumbs := []content.Ref{{Title: "Home", URL: in.Site.URL}}

	switch in.View.Kind {
	case content.ViewCategory, content.ViewTag:
		crumbs = append(crumbs, content.Ref{Title: in.View.Term, URL: in.View.URL})
	case content.ViewDate:
		crumbs = append(crumbs, content.Ref{Title: "Archives"})
		crumbs = append(crumbs, content.Ref{Title: in.View.Term, URL: in.View.URL})
	case content.ViewAuthor:
		crumbs = append(crumbs, content.Ref{Title: "Authors"})
		crumbs = append(crumbs, content.Ref{Title: in.View.Term, URL: in.View.URL})
	case content.ViewSearch:
		crumbs = append(crumbs, content.Ref{Title: "Search results", URL: in.View.URL})
	default:
		if in.Item == nil {
			return nil
		}
		crumbs = append(crumbs, singularTrail(in)...)
		crumbs = append(crumbs, content.Ref{Title: in.Item.Title, URL: in.Item.URL})
	}

	elements := make([]any, 0, len(crumbs))
	for i, c := range crumbs {
		el := Object{
			"@type":    "ListItem",
			"position": i + 1,
		}
		el.set("name", c.Title)
		el.set("item", c.URL)
		elements = append(elements, el)
	}

	o := NewObject("BreadcrumbList")
	o["itemListElement"] = elements
	return o
}

// singularTrail builds the middle of a singular view's trail: the post-type
// archive, then the first taxonomy term for posts, or the hierarchical
// parent chain for page-like content.
func singularTrail(in Input) []content.Ref {
	var trail []content.Ref
	base := in.Site.URL

	switch in.Item.Kind {
	case content.KindPost:
		trail = append(trail, content.Ref{Title: "Posts", URL: base + "/posts"})
		if len(in.Item.Categories) > 0 {
			trail = append(trail, content.Ref{Title: in.Item.Categories[0]})
		}
	case content.KindProduct:
		trail = append(trail, content.Ref{Title: "Products", URL: base + "/products"})
	case content.KindPage:
		trail = append(trail, in.Ancestors...)
	}
	return trail
}
