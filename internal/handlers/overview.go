package handlers

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/labstack/echo/v4"
)

type OverviewService interface {
	ByLocation(ctx context.Context, seeded bool) ([]models.OverviewRow, error)
}

type OverviewHandler struct {
	service OverviewService
}

func NewOverviewHandler(service OverviewService) *OverviewHandler {
	return &OverviewHandler{service: service}
}

func (h *OverviewHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/overview", h.Get)
}

// Get handles GET /overview
func (h *OverviewHandler) Get(c echo.Context) error {
	seeded, err := ParseSeeded(c)
	if err != nil {
		return utils.NewValidationError("seeded", "The seeded field must be true or false.")
	}

	rows, err := h.service.ByLocation(c.Request().Context(), seeded)
	if err != nil {
		return err
	}

	return SuccessResponse(c, rows)
}
