// Package web is the server-rendered client of the fern api.
package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/appctx"
	"github.com/Ramsey-B/fern/pkg/fernclient"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/labstack/echo/v4"
)

// API is the subset of the fern api the web client calls directly.
type API interface {
	ListFriends(ctx context.Context, q fernclient.FriendQuery) (models.Page[models.Friend], error)
	GetFriend(ctx context.Context, id string) (models.Friend, error)
	UpdateFriend(ctx context.Context, id string, req models.FriendRequest) (models.Friend, error)
	CreatePet(ctx context.Context, req models.PetRequest) (models.Pet, error)
	DeletePet(ctx context.Context, id string) error
	CreateQuote(ctx context.Context, req models.QuoteRequest) (models.Quote, error)
	DeleteQuote(ctx context.Context, id string) error
	GetOverview(ctx context.Context, seeded bool) ([]models.OverviewRow, error)
}

type DetailsLoader interface {
	LoadDetails(ctx context.Context, parentID string, seeded bool) (fernclient.FriendDetails, bool, error)
}

type Config struct {
	DefaultSeeded bool
	PageSize      int
}

type Handler struct {
	api    API
	loader DetailsLoader
	config Config
	logger ectologger.Logger
}

func NewHandler(api API, loader DetailsLoader, config Config, logger ectologger.Logger) *Handler {
	if config.PageSize <= 0 {
		config.PageSize = models.DefaultPageSize
	}
	return &Handler{
		api:    api,
		loader: loader,
		config: config,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/friends", h.ListFriends)
	e.GET("/friends/:id", h.FriendDetails)
	e.GET("/friends/:id/edit", h.EditFriend)
	e.POST("/friends/:id/edit", h.SaveFriend)
	e.POST("/friends/:id/pets", h.AddPet)
	e.POST("/friends/:id/pets/:petId/delete", h.DeletePet)
	e.POST("/friends/:id/quotes", h.AddQuote)
	e.POST("/friends/:id/quotes/:quoteId/delete", h.DeleteQuote)
	e.GET("/overview", h.Overview)
}

type pageData struct {
	Seeded bool
}

type friendsData struct {
	pageData
	Filter      string
	Page        models.Page[models.Friend]
	CurrentPage int
	TotalPages  int
	PrevPage    int
	NextPage    int
	Error       string
}

type detailsData struct {
	pageData
	Details     fernclient.FriendDetails
	PetKinds    []string
	PetMoods    []string
	PetForm     models.PetRequest
	PetErrors   map[string][]string
	QuoteForm   models.QuoteRequest
	QuoteErrors map[string][]string
}

type editData struct {
	pageData
	ID     string
	Form   friendForm
	Errors map[string][]string
	Error  string
}

type overviewData struct {
	pageData
	Rows  []models.OverviewRow
	Error string
}

type messageData struct {
	pageData
	Message   string
	RequestID string
}

// seeded reads the partition flag, falling back to the configured default.
func (h *Handler) seeded(c echo.Context) bool {
	if seeded, err := strconv.ParseBool(c.QueryParam("seeded")); err == nil {
		return seeded
	}
	return h.config.DefaultSeeded
}

func friendURL(id string, seeded bool) string {
	return "/friends/" + id + "?seeded=" + strconv.FormatBool(seeded)
}

func (h *Handler) Index(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/friends?seeded="+strconv.FormatBool(h.seeded(c)))
}

// ListFriends renders one page of friends. The page query parameter is
// 1-based; the api is 0-based.
func (h *Handler) ListFriends(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "web.ListFriends")
	defer span.End()

	seeded := h.seeded(c)
	filter := strings.TrimSpace(c.QueryParam("filter"))
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}

	data := friendsData{
		pageData:    pageData{Seeded: seeded},
		Filter:      filter,
		CurrentPage: page,
		PrevPage:    page - 1,
		NextPage:    page + 1,
	}

	result, err := h.api.ListFriends(ctx, fernclient.FriendQuery{
		Seeded:   seeded,
		Filter:   filter,
		PageNr:   page - 1,
		PageSize: h.config.PageSize,
	})
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("failed to list friends")
		data.Page = models.NewPage[models.Friend](nil, page-1, h.config.PageSize, 0)
		data.Error = "Friends could not be loaded."
		return c.Render(http.StatusBadGateway, "friends.html", data)
	}

	data.Page = result
	data.TotalPages = max(result.TotalPages(), 1)
	return c.Render(http.StatusOK, "friends.html", data)
}

func (h *Handler) FriendDetails(c echo.Context) error {
	return h.renderDetails(c, http.StatusOK, detailsData{})
}

// renderDetails loads the friend with its relations and renders the page with
// any form state carried in data.
func (h *Handler) renderDetails(c echo.Context, status int, data detailsData) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "web.FriendDetails")
	defer span.End()

	id := c.Param("id")
	seeded := h.seeded(c)

	details, found, err := h.loader.LoadDetails(ctx, id, seeded)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).WithField("friend_id", id).Error("failed to load friend")
		return h.renderError(c, http.StatusBadGateway, "The friend could not be loaded.")
	}
	if !found {
		return c.Render(http.StatusNotFound, "notfound.html", messageData{
			pageData: pageData{Seeded: seeded},
			Message:  "No friend with id " + id + " exists.",
		})
	}
	if details.Partial() {
		h.logger.WithContext(ctx).WithFields(map[string]any{
			"friend_id":   id,
			"diagnostics": details.Diagnostics,
		}).Warn("rendering friend with partial data")
	}

	data.pageData = pageData{Seeded: seeded}
	data.Details = details
	data.PetKinds = models.PetKinds
	data.PetMoods = models.PetMoods
	return c.Render(status, "details.html", data)
}

func (h *Handler) EditFriend(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "web.EditFriend")
	defer span.End()

	id := c.Param("id")
	seeded := h.seeded(c)

	friend, err := h.api.GetFriend(ctx, id)
	if err != nil {
		var se *fernclient.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return c.Render(http.StatusNotFound, "notfound.html", messageData{
				pageData: pageData{Seeded: seeded},
				Message:  "No friend with id " + id + " exists.",
			})
		}
		h.logger.WithContext(ctx).WithError(err).WithField("friend_id", id).Error("failed to load friend for edit")
		return h.renderError(c, http.StatusBadGateway, "The friend could not be loaded.")
	}

	return c.Render(http.StatusOK, "edit.html", editData{
		pageData: pageData{Seeded: seeded},
		ID:       id,
		Form:     formFromFriend(friend),
	})
}

func (h *Handler) SaveFriend(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "web.SaveFriend")
	defer span.End()

	id := c.Param("id")
	seeded := h.seeded(c)
	form := bindFriendForm(c)

	_, err := h.api.UpdateFriend(ctx, id, form.request(seeded))
	if err == nil {
		return c.Redirect(http.StatusSeeOther, friendURL(id, seeded))
	}

	data := editData{pageData: pageData{Seeded: seeded}, ID: id, Form: form}

	var ve *fernclient.ValidationError
	if errors.As(err, &ve) {
		data.Errors = form.errors(ve)
		if len(data.Errors) == 0 {
			data.Error = ve.Error()
		}
		return c.Render(http.StatusBadRequest, "edit.html", data)
	}

	h.logger.WithContext(ctx).WithError(err).WithField("friend_id", id).Error("failed to save friend")
	data.Error = "The friend could not be saved."
	return c.Render(http.StatusBadGateway, "edit.html", data)
}

func (h *Handler) AddPet(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "web.AddPet")
	defer span.End()

	id := c.Param("id")
	seeded := h.seeded(c)
	req := models.PetRequest{
		FriendID: id,
		Name:     strings.TrimSpace(c.FormValue("name")),
		Kind:     c.FormValue("kind"),
		Mood:     c.FormValue("mood"),
		Seeded:   seeded,
	}

	_, err := h.api.CreatePet(ctx, req)
	if err == nil {
		return c.Redirect(http.StatusSeeOther, friendURL(id, seeded))
	}

	var ve *fernclient.ValidationError
	if errors.As(err, &ve) {
		return h.renderDetails(c, http.StatusBadRequest, detailsData{PetForm: req, PetErrors: ve.Fields})
	}

	h.logger.WithContext(ctx).WithError(err).WithField("friend_id", id).Error("failed to add pet")
	return h.renderError(c, http.StatusBadGateway, "The pet could not be added.")
}

func (h *Handler) DeletePet(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "web.DeletePet")
	defer span.End()

	id, petID := c.Param("id"), c.Param("petId")
	friend, ok, err := h.ownerOf(ctx, id)
	if err != nil {
		return h.renderError(c, http.StatusBadGateway, "The pet could not be deleted.")
	}
	owned := ok && ectolinq.Contains(ectolinq.Map(friend.Pets, func(p models.Pet) string { return p.ID }), petID)
	if !owned {
		h.logger.WithContext(ctx).WithFields(map[string]any{"friend_id": id, "pet_id": petID}).Warn("pet is not owned by friend, nothing deleted")
		return c.Redirect(http.StatusSeeOther, friendURL(id, h.seeded(c)))
	}

	if err := h.api.DeletePet(ctx, petID); err != nil && !isNotFound(err) {
		h.logger.WithContext(ctx).WithError(err).WithField("pet_id", petID).Error("failed to delete pet")
		return h.renderError(c, http.StatusBadGateway, "The pet could not be deleted.")
	}

	return c.Redirect(http.StatusSeeOther, friendURL(c.Param("id"), h.seeded(c)))
}

func (h *Handler) AddQuote(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "web.AddQuote")
	defer span.End()

	id := c.Param("id")
	seeded := h.seeded(c)
	req := models.QuoteRequest{
		Quote:     strings.TrimSpace(c.FormValue("quote")),
		Author:    strings.TrimSpace(c.FormValue("author")),
		FriendIDs: []string{id},
		Seeded:    seeded,
	}

	_, err := h.api.CreateQuote(ctx, req)
	if err == nil {
		return c.Redirect(http.StatusSeeOther, friendURL(id, seeded))
	}

	var ve *fernclient.ValidationError
	if errors.As(err, &ve) {
		return h.renderDetails(c, http.StatusBadRequest, detailsData{QuoteForm: req, QuoteErrors: ve.Fields})
	}

	h.logger.WithContext(ctx).WithError(err).WithField("friend_id", id).Error("failed to add quote")
	return h.renderError(c, http.StatusBadGateway, "The quote could not be added.")
}

func (h *Handler) DeleteQuote(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "web.DeleteQuote")
	defer span.End()

	id, quoteID := c.Param("id"), c.Param("quoteId")
	friend, ok, err := h.ownerOf(ctx, id)
	if err != nil {
		return h.renderError(c, http.StatusBadGateway, "The quote could not be deleted.")
	}
	linked := ok && ectolinq.Contains(ectolinq.Map(friend.Quotes, func(q models.Quote) string { return q.ID }), quoteID)
	if !linked {
		h.logger.WithContext(ctx).WithFields(map[string]any{"friend_id": id, "quote_id": quoteID}).Warn("quote is not linked to friend, nothing deleted")
		return c.Redirect(http.StatusSeeOther, friendURL(id, h.seeded(c)))
	}

	if err := h.api.DeleteQuote(ctx, quoteID); err != nil && !isNotFound(err) {
		h.logger.WithContext(ctx).WithError(err).WithField("quote_id", quoteID).Error("failed to delete quote")
		return h.renderError(c, http.StatusBadGateway, "The quote could not be deleted.")
	}

	return c.Redirect(http.StatusSeeOther, friendURL(c.Param("id"), h.seeded(c)))
}

func (h *Handler) Overview(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "web.Overview")
	defer span.End()

	seeded := h.seeded(c)
	rows, err := h.api.GetOverview(ctx, seeded)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("failed to load overview")
		return c.Render(http.StatusBadGateway, "overview.html", overviewData{
			pageData: pageData{Seeded: seeded},
			Error:    "The overview could not be loaded.",
		})
	}

	return c.Render(http.StatusOK, "overview.html", overviewData{
		pageData: pageData{Seeded: seeded},
		Rows:     rows,
	})
}

func (h *Handler) renderError(c echo.Context, status int, message string) error {
	return c.Render(status, "error.html", messageData{
		pageData:  pageData{Seeded: h.seeded(c)},
		Message:   message,
		RequestID: appctx.GetRequestID(c.Request().Context()),
	})
}

// isNotFound treats deleting an already deleted record as done.
// ownerOf reads the friend a delete form was posted under. ok is false when
// the friend no longer exists.
func (h *Handler) ownerOf(ctx context.Context, id string) (models.Friend, bool, error) {
	friend, err := h.api.GetFriend(ctx, id)
	switch {
	case err == nil:
		return friend, true, nil
	case isNotFound(err):
		return models.Friend{}, false, nil
	default:
		h.logger.WithContext(ctx).WithError(err).WithField("friend_id", id).Error("failed to load friend")
		return models.Friend{}, false, err
	}
}

func isNotFound(err error) bool {
	var se *fernclient.StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusNotFound
	}
	var ve *fernclient.ValidationError
	return errors.As(err, &ve) && ve.StatusCode == http.StatusNotFound
}
