package endpoints

import (
	"github.com/asmlabs/pagemark/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Content item endpoints
		&ListItemsEndpoint{},
		&GetItemEndpoint{},
		&ExportItemEndpoint{},

		// Render endpoints
		&RenderEndpoint{},
		&HeadEndpoint{},

		// Schema endpoints
		&GetSchemaEndpoint{},
		&ValidateSchemaEndpoint{},

		// Per-item settings endpoints
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},
		&UpdateSettingEndpoint{},
		&DeleteSettingEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
	}
}
