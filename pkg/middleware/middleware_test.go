package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/fern/pkg/appctx"
	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho(handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = Error(logging.Discard())
	e.Use(Context(), HeaderIdentity())
	e.GET("/test", handler)
	return e
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestContextSetsRequestAndUser(t *testing.T) {
	var requestID, userID string
	e := newTestEcho(func(c echo.Context) error {
		requestID = appctx.GetRequestID(c.Request().Context())
		userID = appctx.GetUserID(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc")
	req.Header.Set(HeaderUserID, "user-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc", requestID)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "abc", rec.Header().Get(echo.HeaderXRequestID))
}

func TestContextGeneratesRequestID(t *testing.T) {
	e := newTestEcho(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
		fields  map[string][]string
	}{
		{
			name:    "validation error",
			err:     utils.NewValidationError("email", "email must be a valid email"),
			code:    http.StatusBadRequest,
			message: "One or more validation errors occurred.",
			fields:  map[string][]string{"email": {"email must be a valid email"}},
		},
		{
			name:    "http error",
			err:     httperror.NewHTTPError(http.StatusNotFound, "friend x not found"),
			code:    http.StatusNotFound,
			message: "friend x not found",
		},
		{
			name:    "echo error",
			err:     echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"),
			code:    http.StatusMethodNotAllowed,
			message: "nope",
		},
		{
			name:    "unknown error",
			err:     errors.New("boom"),
			code:    http.StatusInternalServerError,
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(func(echo.Context) error { return tt.err })

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(echo.HeaderXRequestID, "req-9")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			body := decode(t, rec)
			assert.Contains(t, body.Message, tt.message)
			assert.Equal(t, "req-9", body.RequestID)
			assert.Equal(t, tt.fields, body.Errors)
		})
	}
}
