package handlers

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/labstack/echo/v4"
)

type SeedService interface {
	Seed(ctx context.Context, req models.SeedRequest) (models.SeedResult, error)
	Clear(ctx context.Context, seeded bool) (models.SeedResult, error)
}

// AdminHandler generates and removes partition data. Intended for local
// development and tests.
type AdminHandler struct {
	service SeedService
}

func NewAdminHandler(service SeedService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	admin := g.Group("/admin")
	admin.POST("/seed", h.Seed)
	admin.DELETE("/seed", h.Clear)
}

// Seed handles POST /admin/seed
func (h *AdminHandler) Seed(c echo.Context) error {
	req, err := utils.BindRequest[models.SeedRequest](c)
	if err != nil {
		return err
	}

	result, err := h.service.Seed(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return CreatedResponse(c, result)
}

// Clear handles DELETE /admin/seed
func (h *AdminHandler) Clear(c echo.Context) error {
	seeded, err := ParseSeeded(c)
	if err != nil {
		return utils.NewValidationError("seeded", "The seeded field must be true or false.")
	}

	result, err := h.service.Clear(c.Request().Context(), seeded)
	if err != nil {
		return err
	}

	return SuccessResponse(c, result)
}
