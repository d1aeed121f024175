package router

import (
	"net/http"

	"github.com/deppfellow/shopbuilder/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerStoreRoutes(api *echo.Group, h *handler.Handlers) {
	stores := api.Group("/stores")

	stores.POST("", handler.Handle(h.Store.CreateStore, http.StatusOK))
	stores.GET("", handler.Handle(h.Store.ListStores, http.StatusOK))
}

func registerProductRoutes(api *echo.Group, h *handler.Handlers) {
	api.POST("/products", handler.Handle(h.Product.CreateProduct, http.StatusOK))

	// Nested under stores because products are always listed per store.
	api.GET("/stores/:store_id/products", handler.Handle(h.Product.ListProductsForStore, http.StatusOK))
}
