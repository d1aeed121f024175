package handler

import (
	"github.com/deppfellow/shopbuilder/internal/server"
	"github.com/deppfellow/shopbuilder/internal/service"
)

// Handlers groups every HTTP handler so the router receives one object.
type Handlers struct {
	System  *SystemHandler
	Store   *StoreHandler
	Product *ProductHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		System:  NewSystemHandler(s, services.Diagnostics),
		Store:   NewStoreHandler(s, services.Store),
		Product: NewProductHandler(s, services.Product),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
