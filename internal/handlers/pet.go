package handlers

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/labstack/echo/v4"
)

type PetService interface {
	List(ctx context.Context, q models.ListQuery) (models.Page[models.Pet], error)
	Get(ctx context.Context, id string) (*models.Pet, error)
	Create(ctx context.Context, req models.PetRequest) (*models.Pet, error)
	Update(ctx context.Context, id string, req models.PetRequest) (*models.Pet, error)
	Delete(ctx context.Context, id string) error
}

// PetHandler handles pet API requests
type PetHandler struct {
	service PetService
}

func NewPetHandler(service PetService) *PetHandler {
	return &PetHandler{service: service}
}

// RegisterRoutes registers the pet routes
func (h *PetHandler) RegisterRoutes(g *echo.Group) {
	pets := g.Group("/pets")
	pets.GET("", h.List)
	pets.POST("", h.Create)
	pets.GET("/:id", h.Get)
	pets.PUT("/:id", h.Update)
	pets.DELETE("/:id", h.Delete)
}

// List handles GET /pets
func (h *PetHandler) List(c echo.Context) error {
	q, err := ParseListQuery(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}

	return SuccessResponse(c, page)
}

// Get handles GET /pets/:id
func (h *PetHandler) Get(c echo.Context) error {
	pet, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return SuccessResponse(c, pet)
}

// Create handles POST /pets
func (h *PetHandler) Create(c echo.Context) error {
	req, err := utils.BindRequest[models.PetRequest](c)
	if err != nil {
		return err
	}

	pet, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return CreatedResponse(c, pet)
}

// Update handles PUT /pets/:id
func (h *PetHandler) Update(c echo.Context) error {
	req, err := utils.BindRequest[models.PetRequest](c)
	if err != nil {
		return err
	}

	pet, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}

	return SuccessResponse(c, pet)
}

// Delete handles DELETE /pets/:id
func (h *PetHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return NoContentResponse(c)
}
