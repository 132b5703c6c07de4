// Package docs provides generated OpenAPI documentation.
//
// Pagemark API
//
//	@title			Pagemark API
//	@version		1.0
//	@description	Content enrichment API for table of contents compilation and schema.org structured data.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/asmlabs/pagemark
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/pagemark/serve.go -o ./swagger --parseDependency --parseInternal
