package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/labstack/echo/v4"
)

// ParseListQuery reads seeded, filter, friendId, pageNr and pageSize from the
// query string. pageNr is 0-based; pageSize is clamped to [1, MaxPageSize].
func ParseListQuery(c echo.Context) (models.ListQuery, error) {
	q := models.ListQuery{
		Seeded:   true,
		Filter:   strings.TrimSpace(c.QueryParam("filter")),
		FriendID: strings.TrimSpace(c.QueryParam("friendId")),
		PageSize: models.DefaultPageSize,
	}

	verr := &utils.ValidationError{Message: "One or more validation errors occurred."}

	seeded, err := ParseSeeded(c)
	if err != nil {
		verr.Add("seeded", "The seeded field must be true or false.")
	}
	q.Seeded = seeded

	if raw := c.QueryParam("pageNr"); raw != "" {
		pageNr, err := strconv.Atoi(raw)
		if err != nil || pageNr < 0 {
			verr.Add("pageNr", "The pageNr field must be a non-negative number.")
		}
		q.PageNr = max(pageNr, 0)
	}

	if raw := c.QueryParam("pageSize"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add("pageSize", "The pageSize field must be a number.")
		}
		q.PageSize = min(max(pageSize, 1), models.MaxPageSize)
	}

	if q.PageNr > models.MaxOffset/q.PageSize {
		verr.Add("pageNr", "The pageNr field is out of range.")
	}

	if q.FriendID != "" {
		if err := utils.ValidateValue(q.FriendID, "uuid"); err != nil {
			verr.Add("friendId", "The friendId field must be a valid id.")
		}
	}

	if len(verr.Fields) > 0 {
		return q, verr
	}
	return q, nil
}

// ParseSeeded reads the dataset partition flag, defaulting to the seeded one.
func ParseSeeded(c echo.Context) (bool, error) {
	raw := c.QueryParam("seeded")
	if raw == "" {
		return true, nil
	}
	return strconv.ParseBool(raw)
}

// SuccessResponse returns a 200 OK with data
func SuccessResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

// CreatedResponse returns a 201 Created with data
func CreatedResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, data)
}

// NoContentResponse returns a 204 No Content
func NoContentResponse(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
