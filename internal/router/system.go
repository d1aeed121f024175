package router

import (
	"github.com/deppfellow/shopbuilder/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the
// store/product domain: banner, greeting, diagnostics, health and docs.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.System.Root)
	r.GET("/api/hello", h.System.Hello)

	// Human-readable storage diagnostic. Always 200.
	r.GET("/test", h.System.Diagnostics)

	// Health status endpoint (used by load balancers and monitors).
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
	r.GET("/openapi.json", h.OpenAPI.ServeOpenAPISpec)
}
