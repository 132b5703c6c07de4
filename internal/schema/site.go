package schema

import (
	"github.com/asmlabs/pagemark/internal/content"
)

// EntityType selects the site-level publisher entity kind.
type EntityType string

const (
	EntityOrganization EntityType = "organization"
	EntityPerson       EntityType = "person"
)

// Site is the site-level entity configuration the assembler reads.
type Site struct {
	Name        string
	URL         string
	Description string

	Entity         EntityType
	EntityName     string
	EntityLogo     string
	SocialProfiles []string

	// DefaultTypes maps a content kind to its default schema type name,
	// applied when an item declares no type of its own.
	DefaultTypes map[content.Kind]string
}

// ResolveType picks the effective schema type for an item: the per-item
// selection when present, otherwise the site default for the item's kind,
// otherwise WebPage.
func (s Site) ResolveType(declared string, kind content.Kind) Type {
	if declared != "" {
		return ParseType(declared)
	}
	if def, ok := s.DefaultTypes[kind]; ok && def != "" {
		return ParseType(def)
	}
	return TypeWebPage
}

// entityName returns the configured entity name, falling back to the site
// name.
func (s Site) entityName() string {
	if s.EntityName != "" {
		return s.EntityName
	}
	return s.Name
}

// website builds the site-wide WebSite object.
func (s Site) website() Object {
	o := NewObject("WebSite")
	o.set("name", s.Name)
	o.set("url", s.URL)
	o.set("description", s.Description)
	return o
}

// entity builds the Organization-or-Person identity object.
func (s Site) entity() Object {
	t := Type("Organization")
	if s.Entity == EntityPerson {
		t = Type("Person")
	}
	o := NewObject(t)
	o.set("name", s.entityName())
	o.set("url", s.URL)
	if s.EntityLogo != "" && s.Entity != EntityPerson {
		o.set("logo", Object{
			"@type": "ImageObject",
			"url":   s.EntityLogo,
		})
	}
	o.set("sameAs", s.SocialProfiles)
	return o
}

// publisher builds the publisher reference embedded in article-like
// objects.
func (s Site) publisher() Object {
	o := Object{"@type": "Organization"}
	if s.Entity == EntityPerson {
		o["@type"] = "Person"
	}
	o.set("name", s.entityName())
	if s.EntityLogo != "" && s.Entity != EntityPerson {
		o.set("logo", Object{
			"@type": "ImageObject",
			"url":   s.EntityLogo,
		})
	}
	return o
}
