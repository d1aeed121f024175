package handler

import (
	"net/http"

	"github.com/deppfellow/shopbuilder/internal/server"
	"github.com/deppfellow/shopbuilder/internal/service"
	"github.com/labstack/echo/v4"
)

// SystemHandler serves the banner, greeting and diagnostic endpoints.
type SystemHandler struct {
	Handler
	diagnostics *service.DiagnosticsService
}

func NewSystemHandler(s *server.Server, diagnostics *service.DiagnosticsService) *SystemHandler {
	return &SystemHandler{
		Handler:     NewHandler(s),
		diagnostics: diagnostics,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *SystemHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "E-commerce Builder API running"})
}

func (h *SystemHandler) Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Hello from the backend API!"})
}

// Diagnostics always answers 200; problems are described in the body.
func (h *SystemHandler) Diagnostics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.diagnostics.Snapshot(c.Request().Context()))
}
