package handler

import (
	"github.com/deppfellow/shopbuilder/internal/model"
	"github.com/deppfellow/shopbuilder/internal/server"
	"github.com/deppfellow/shopbuilder/internal/service"
	"github.com/labstack/echo/v4"
)

type StoreHandler struct {
	Handler
	storeService *service.StoreService
}

func NewStoreHandler(s *server.Server, storeService *service.StoreService) *StoreHandler {
	return &StoreHandler{
		Handler:      NewHandler(s),
		storeService: storeService,
	}
}

// ListStoresRequest has no inputs; GET /api/stores lists everything.
type ListStoresRequest struct{}

func (r *ListStoresRequest) Validate() error {
	return nil
}

func (h *StoreHandler) CreateStore(c echo.Context, payload *model.CreateStorePayload) (map[string]any, error) {
	return h.storeService.CreateStore(c.Request().Context(), payload)
}

func (h *StoreHandler) ListStores(c echo.Context, _ *ListStoresRequest) ([]map[string]any, error) {
	return h.storeService.ListStores(c.Request().Context())
}
