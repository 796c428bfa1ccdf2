package handlers

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/labstack/echo/v4"
)

type QuoteService interface {
	List(ctx context.Context, q models.ListQuery) (models.Page[models.Quote], error)
	Get(ctx context.Context, id string) (*models.Quote, error)
	Create(ctx context.Context, req models.QuoteRequest) (*models.Quote, error)
	Update(ctx context.Context, id string, req models.QuoteRequest) (*models.Quote, error)
	Delete(ctx context.Context, id string) error
}

// QuoteHandler handles quote API requests
type QuoteHandler struct {
	service QuoteService
}

func NewQuoteHandler(service QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// RegisterRoutes registers the quote routes
func (h *QuoteHandler) RegisterRoutes(g *echo.Group) {
	quotes := g.Group("/quotes")
	quotes.GET("", h.List)
	quotes.POST("", h.Create)
	quotes.GET("/:id", h.Get)
	quotes.PUT("/:id", h.Update)
	quotes.DELETE("/:id", h.Delete)
}

// List handles GET /quotes
func (h *QuoteHandler) List(c echo.Context) error {
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

// Get handles GET /quotes/:id
func (h *QuoteHandler) Get(c echo.Context) error {
	quote, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return SuccessResponse(c, quote)
}

// Create handles POST /quotes
func (h *QuoteHandler) Create(c echo.Context) error {
	req, err := utils.BindRequest[models.QuoteRequest](c)
	if err != nil {
		return err
	}

	quote, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return CreatedResponse(c, quote)
}

// Update handles PUT /quotes/:id
func (h *QuoteHandler) Update(c echo.Context) error {
	req, err := utils.BindRequest[models.QuoteRequest](c)
	if err != nil {
		return err
	}

	quote, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}

	return SuccessResponse(c, quote)
}

// Delete handles DELETE /quotes/:id
func (h *QuoteHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return NoContentResponse(c)
}
