package handler

import (
	"github.com/deppfellow/shopbuilder/internal/model"
	"github.com/deppfellow/shopbuilder/internal/server"
	"github.com/deppfellow/shopbuilder/internal/service"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	Handler
	productService *service.ProductService
}

func NewProductHandler(s *server.Server, productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		Handler:        NewHandler(s),
		productService: productService,
	}
}

// ListProductsRequest carries the store_id path segment. It is parsed by
// the service so a malformed id is a 400 rather than a schema violation.
type ListProductsRequest struct {
	StoreID string `param:"store_id"`
}

func (r *ListProductsRequest) Validate() error {
	return nil
}

func (h *ProductHandler) CreateProduct(c echo.Context, payload *model.CreateProductPayload) (map[string]any, error) {
	return h.productService.CreateProduct(c.Request().Context(), payload)
}

// ListProductsForStore serves GET /api/stores/:store_id/products. The path id
// is case-insensitive; products always carry the lower-case form.
func (h *ProductHandler) ListProductsForStore(c echo.Context, req *ListProductsRequest) ([]map[string]any, error) {
	return h.productService.ListProductsForStore(c.Request().Context(), req.StoreID)
}
