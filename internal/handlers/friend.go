package handlers

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/labstack/echo/v4"
)

type FriendService interface {
	List(ctx context.Context, q models.ListQuery) (models.Page[models.Friend], error)
	Get(ctx context.Context, id string) (*models.Friend, error)
	Create(ctx context.Context, req models.FriendRequest) (*models.Friend, error)
	Update(ctx context.Context, id string, req models.FriendRequest) (*models.Friend, error)
	Delete(ctx context.Context, id string) error
}

// FriendHandler handles friend API requests
type FriendHandler struct {
	service FriendService
}

func NewFriendHandler(service FriendService) *FriendHandler {
	return &FriendHandler{service: service}
}

// RegisterRoutes registers the friend routes
func (h *FriendHandler) RegisterRoutes(g *echo.Group) {
	friends := g.Group("/friends")
	friends.GET("", h.List)
	friends.POST("", h.Create)
	friends.GET("/:id", h.Get)
	friends.PUT("/:id", h.Update)
	friends.DELETE("/:id", h.Delete)
}

// List handles GET /friends
func (h *FriendHandler) List(c echo.Context) error {
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

// Get handles GET /friends/:id
func (h *FriendHandler) Get(c echo.Context) error {
	friend, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return SuccessResponse(c, friend)
}

// Create handles POST /friends
func (h *FriendHandler) Create(c echo.Context) error {
	req, err := utils.BindRequest[models.FriendRequest](c)
	if err != nil {
		return err
	}

	friend, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return CreatedResponse(c, friend)
}

// Update handles PUT /friends/:id
func (h *FriendHandler) Update(c echo.Context) error {
	req, err := utils.BindRequest[models.FriendRequest](c)
	if err != nil {
		return err
	}

	friend, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}

	return SuccessResponse(c, friend)
}

// Delete handles DELETE /friends/:id
func (h *FriendHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return NoContentResponse(c)
}
