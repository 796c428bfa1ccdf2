package middleware

import (
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/appctx"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Message   string              `json:"message"`
	RequestID string              `json:"request_id"`
	TraceID   string              `json:"trace_id"`
	Meta      map[string]any      `json:"meta"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

func Error(logger ectologger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		ctx := c.Request().Context()
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal Server Error"
		meta := map[string]any{}
		var fieldErrors map[string][]string

		var he *echo.HTTPError
		var ve *utils.ValidationError
		switch {
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			message = ve.Error()
			fieldErrors = ve.Fields
		case errors.As(err, &he):
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		case httperror.IsHTTPError(err):
			httperr := httperror.ToHTTPError(err)
			code = httperror.GetStatusCode(err)
			message = httperr.Error()
			if httperr.Meta != nil {
				meta = httperr.Meta
			}
		}

		log := logger.WithContext(ctx).WithError(err)
		if code >= 500 {
			log.Error("api is returning an error")
		} else {
			log.Warn("api is returning an error")
		}

		_ = c.JSON(code, ErrorResponse{
			Message:   message,
			RequestID: appctx.GetRequestID(ctx),
			TraceID:   tracing.GetTraceID(ctx),
			Meta:      meta,
			Errors:    fieldErrors,
		})
	}
}
