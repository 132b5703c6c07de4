// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/asmlabs/pagemark/internal/cache"
	"github.com/asmlabs/pagemark/internal/config"
	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/home"
	"github.com/asmlabs/pagemark/internal/richresults"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Config    *config.Manager
	Items     *content.Store
	Meta      *content.MetaStore
	Cache     *cache.Transient
	Validator *richresults.Client
	Logger    *slog.Logger
	Home      *home.Dir
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// ItemsFrom extracts the content store from context.
func ItemsFrom(ctx context.Context) *content.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Items
	}
	return nil
}

// MetaFrom extracts the per-item settings store from context.
func MetaFrom(ctx context.Context) *content.MetaStore {
	if s := ServicesFrom(ctx); s != nil {
		return s.Meta
	}
	return nil
}

// CacheFrom extracts the transient cache from context.
func CacheFrom(ctx context.Context) *cache.Transient {
	if s := ServicesFrom(ctx); s != nil {
		return s.Cache
	}
	return nil
}

// ValidatorFrom extracts the rich-results client from context.
func ValidatorFrom(ctx context.Context) *richresults.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.Validator
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}
