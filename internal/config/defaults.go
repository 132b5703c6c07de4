package config

import "time"

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Name: "Pagemark Site",
			URL:  "http://localhost:8080",
		},
		TOC: TOCConfig{
			Enable:      true,
			MinHeadings: 3,
			Title:       "Table of Contents",
			Position:    "top",
			Width:       100,
			Toggle:      true,
		},
		Schema: SchemaConfig{
			Enable: true,
			Entity: "organization",
			DefaultTypes: map[string]string{
				"post":    "Article",
				"page":    "WebPage",
				"product": "Product",
			},
			CacheTTL: 12 * time.Hour,
		},
		Admin: AdminConfig{
			Token:       "${PAGEMARK_ADMIN_TOKEN}",
			NonceSecret: "${PAGEMARK_NONCE_SECRET}",
		},
		Validator: ValidatorConfig{
			Endpoint: "https://search.google.com/test/rich-results",
			Timeout:  15 * time.Second,
		},
	}
}
