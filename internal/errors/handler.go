package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Render converts any error into a status code and its JSON envelope.
func Render(err error) (int, interface{}) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, ValidationErrorResponse{
			Message:    "Validation error",
			Errors:     ve.Fields,
			StatusCode: http.StatusUnprocessableEntity,
		}
	}

	var ee *echo.HTTPError
	if errors.As(err, &ee) {
		if ee.Internal != nil {
			if status, body := Render(ee.Internal); status != http.StatusInternalServerError {
				return status, body
			}
		}
		he := NewHTTPError(ee.Code, fmt.Sprint(ee.Message), "")
		if ee.Code >= http.StatusInternalServerError {
			he.Message = InternalMessage
		}
		return he.StatusCode, he.ToErrorResponse()
	}

	he := MapErrorToHTTP(err)
	return he.StatusCode, he.ToErrorResponse()
}

// Handler is the top-level echo error handler. 5xx causes are logged and
// never sent to the client.
func Handler(zl zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := Render(err)
		if status >= http.StatusInternalServerError {
			zl.Error().Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			zl.Error().Err(err).Msg("write error response")
		}
	}
}
