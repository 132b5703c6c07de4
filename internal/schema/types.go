// Package schema assembles schema.org JSON-LD graphs for content items and
// validates assembled objects against per-type property rules.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Context is the fixed @context literal of every emitted object.
const Context = "https://schema.org"

// Type is a schema.org type name from the closed set the assembler knows
// how to build.
type Type string

const (
	TypeArticle       Type = "Article"
	TypeBlogPosting   Type = "BlogPosting"
	TypeNewsArticle   Type = "NewsArticle"
	TypeProduct       Type = "Product"
	TypeRecipe        Type = "Recipe"
	TypeFAQPage       Type = "FAQPage"
	TypeHowTo         Type = "HowTo"
	TypeLocalBusiness Type = "LocalBusiness"
	TypeEvent         Type = "Event"
	TypeWebPage       Type = "WebPage"
	// TypeNone disables schema output for an item.
	TypeNone Type = "none"
)

// Types lists every selectable type, in display order.
var Types = []Type{
	TypeArticle, TypeBlogPosting, TypeNewsArticle, TypeProduct, TypeRecipe,
	TypeFAQPage, TypeHowTo, TypeLocalBusiness, TypeEvent, TypeWebPage,
	TypeNone,
}

// ParseType maps a type name to a known Type. Unknown or empty names fall
// back to WebPage, mirroring the generic builder fallback.
func ParseType(s string) Type {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(TypeNone)) {
		return TypeNone
	}
	for _, t := range Types {
		if string(t) == s {
			return t
		}
	}
	return TypeWebPage
}

// IsArticle reports whether t is one of the article-like types that get
// author/publisher enrichment.
func (t Type) IsArticle() bool {
	return t == TypeArticle || t == TypeBlogPosting || t == TypeNewsArticle
}

// Object is one schema.org object: a key/value mapping always carrying
// @context and @type.
type Object map[string]any

// NewObject returns an Object seeded with the fixed context and the given
// type.
func NewObject(t Type) Object {
	return Object{
		"@context": Context,
		"@type":    string(t),
	}
}

// Type returns the object's @type, or "" when unset.
func (o Object) Type() string {
	s, _ := o["@type"].(string)
	return s
}

// set stores a value only when it is non-empty, so absent source fields
// never surface as null or empty keys.
func (o Object) set(key string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		if v == "" {
			return
		}
	case []string:
		if len(v) == 0 {
			return
		}
	case []any:
		if len(v) == 0 {
			return
		}
	case Object:
		if len(v) == 0 {
			return
		}
	case map[string]any:
		if len(v) == 0 {
			return
		}
	}
	o[key] = value
}

// Graph is an ordered sequence of objects serialized as one JSON-LD array.
type Graph []Object

// JSON serializes the graph as a compact JSON array. Element order is
// preserved.
func (g Graph) JSON() (string, error) {
	data, err := json.Marshal([]Object(g))
	if err != nil {
		return "", fmt.Errorf("failed to serialize schema graph: %w", err)
	}
	return string(data), nil
}

// PrettyJSON serializes the graph with indentation for display.
func (g Graph) PrettyJSON() (string, error) {
	data, err := json.MarshalIndent([]Object(g), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize schema graph: %w", err)
	}
	return string(data), nil
}

// ScriptTag renders the graph as an application/ld+json script block for
// head injection. An empty graph renders nothing.
func (g Graph) ScriptTag() string {
	if len(g) == 0 {
		return ""
	}
	data, err := g.JSON()
	if err != nil {
		return ""
	}
	return `<script type="application/ld+json">` + data + `</script>`
}
