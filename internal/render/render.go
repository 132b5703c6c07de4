// Package render composes the per-request enrichment pipelines.
//
// Instead of a named-hook bus, the content and head pipelines are explicit
// ordered lists of pure transform calls assembled by the caller.
package render

import (
	"strings"

	"github.com/asmlabs/pagemark/internal/cache"
	"github.com/asmlabs/pagemark/internal/config"
	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/schema"
	"github.com/asmlabs/pagemark/internal/toc"
)

// Context is the immutable snapshot one render pass works from.
type Context struct {
	Item      *content.Item
	Ancestors []content.Ref
	View      content.View
	Config    *config.Config
	Meta      *content.MetaStore
}

// ContentFilter transforms rendered item content. Filters must return the
// input unchanged when they do not apply.
type ContentFilter func(ctx Context, body string) string

// Pipeline is an ordered list of content filters.
type Pipeline []ContentFilter

// Apply runs every filter in order over the body.
func (p Pipeline) Apply(ctx Context, body string) string {
	for _, f := range p {
		body = f(ctx, body)
	}
	return body
}

// HeadEmitter produces one head fragment, or "" when it has nothing to
// emit.
type HeadEmitter func(ctx Context) string

// HeadPipeline is an ordered list of head emitters.
type HeadPipeline []HeadEmitter

// Render concatenates the non-empty fragments of all emitters.
func (p HeadPipeline) Render(ctx Context) string {
	var fragments []string
	for _, e := range p {
		if frag := e(ctx); frag != "" {
			fragments = append(fragments, frag)
		}
	}
	return strings.Join(fragments, "\n")
}

// TOCFilter returns the content filter that injects a table of contents.
// It applies only on singular views with the site toggle on and no
// per-item disable flag; below the heading threshold the body passes
// through untouched.
func TOCFilter() ContentFilter {
	return func(ctx Context, body string) string {
		if !ctx.View.Singular() || ctx.Config == nil || !ctx.Config.TOC.Enable {
			return body
		}
		if ctx.Item != nil && ctx.Meta != nil &&
			ctx.Meta.GetBool(ctx.Item.ID, content.MetaTOCDisable, false) {
			return body
		}

		opts := ctx.Config.TOC.Options()
		res := toc.Compile(body, opts)
		if res.Skipped {
			return body
		}
		block := toc.RenderHTML(res.Outline, opts)
		return toc.Insert(res.Content, block, opts.Position)
	}
}

// SchemaEmitter returns the head emitter that prints the JSON-LD script
// block, consulting the transient cache keyed by item identity. The cache
// is write-through with the configured TTL; item saves invalidate it.
func SchemaEmitter(transient *cache.Transient) HeadEmitter {
	return func(ctx Context) string {
		if ctx.Config == nil || !ctx.Config.Schema.Enable {
			return ""
		}

		key := CacheKey(ctx)
		if transient != nil {
			if tag, ok := transient.Get(key); ok {
				return tag
			}
		}

		in := schema.Input{
			Item:      ctx.Item,
			Ancestors: ctx.Ancestors,
			View:      ctx.View,
			Site:      ctx.Config.SchemaSite(),
		}
		if ctx.Item != nil && ctx.Meta != nil {
			in.Override = ctx.Meta.GetString(ctx.Item.ID, content.MetaSchemaCustom, "")
			in.DeclaredType = ctx.Meta.GetString(ctx.Item.ID, content.MetaSchemaType, ctx.Item.SchemaType)
		} else if ctx.Item != nil {
			in.DeclaredType = ctx.Item.SchemaType
		}

		tag := schema.Assemble(in).ScriptTag()
		if transient != nil && tag != "" {
			transient.Set(key, tag, ctx.Config.Schema.CacheTTL)
		}
		return tag
	}
}

// CacheKey derives the transient key for a render context.
func CacheKey(ctx Context) string {
	if ctx.Item != nil {
		return "schema:item:" + ctx.Item.ID
	}
	return "schema:view:" + string(ctx.View.Kind) + ":" + ctx.View.Term
}

// InvalidateItem drops the cached schema output for one item. Wire this to
// the content store's save hook.
func InvalidateItem(transient *cache.Transient, itemID string) {
	if transient == nil {
		return
	}
	transient.Invalidate("schema:item:" + itemID)
}
