package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/schema"
	"github.com/asmlabs/pagemark/internal/toc"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.TOC.Enable)
	assert.Equal(t, 3, cfg.TOC.MinHeadings)
	assert.Equal(t, "top", cfg.TOC.Position)

	assert.True(t, cfg.Schema.Enable)
	assert.Equal(t, "organization", cfg.Schema.Entity)
	assert.Equal(t, 12*time.Hour, cfg.Schema.CacheTTL)
	assert.Equal(t, "Article", cfg.Schema.DefaultTypes["post"])

	assert.Equal(t, 15*time.Second, cfg.Validator.Timeout)
	assert.NotEmpty(t, cfg.Validator.Endpoint)
}

func TestTOCOptions(t *testing.T) {
	t.Run("defaults_preserved", func(t *testing.T) {
		opts := DefaultConfig().TOC.Options()
		assert.Equal(t, 3, opts.MinHeadings)
		assert.Equal(t, toc.PositionTop, opts.Position)
		assert.Equal(t, 100, opts.WidthPercent)
		assert.True(t, opts.ShowToggle)
	})

	t.Run("custom_values", func(t *testing.T) {
		tc := TOCConfig{
			MinHeadings: 5,
			Title:       "Contents",
			Position:    "after-first-p",
			Width:       50,
			Toggle:      false,
		}
		opts := tc.Options()
		assert.Equal(t, 5, opts.MinHeadings)
		assert.Equal(t, "Contents", opts.Title)
		assert.Equal(t, toc.PositionAfterFirstParagraph, opts.Position)
		assert.Equal(t, 50, opts.WidthPercent)
		assert.False(t, opts.ShowToggle)
	})
}

func TestSchemaSite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.Name = "My Site"
	cfg.Site.URL = "https://my.example"
	cfg.Schema.Entity = "person"
	cfg.Schema.EntityName = "Jane"
	cfg.Schema.SocialProfiles = []string{"https://mastodon.example/@jane"}

	site := cfg.SchemaSite()
	assert.Equal(t, "My Site", site.Name)
	assert.Equal(t, schema.EntityPerson, site.Entity)
	assert.Equal(t, "Jane", site.EntityName)
	assert.Equal(t, []string{"https://mastodon.example/@jane"}, site.SocialProfiles)
	assert.Equal(t, "Article", site.DefaultTypes[content.KindPost])
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("PAGEMARK_TEST_TOKEN", "sekrit")

	assert.Equal(t, "sekrit", ResolveEnvVars("${PAGEMARK_TEST_TOKEN}"))
	assert.Equal(t, "plain", ResolveEnvVars("plain"))
	assert.Equal(t, "", ResolveEnvVars(""))
	assert.Equal(t, "", ResolveEnvVars("${PAGEMARK_UNSET_VAR}"))
}
