package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/videotube/backend/internal/api/response"
	"github.com/videotube/backend/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps workflow errors (*domain.Error) to their kind's HTTP status.
//   - Keeps Echo's own errors (bind failures, router 404/405) as they are.
//   - Treats anything else as a 500, passing its message through.
//   - Always renders the failure envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, details := resolveError(err, log, c)

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, response.Fail(code, msg, details...))
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, []string) {
	var de *domain.Error
	if errors.As(err, &de) {
		code := de.StatusCode()
		if code >= http.StatusInternalServerError {
			logUnhandled(log, c, err, "workflow error")
		}
		return code, de.Message, de.Details
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	logUnhandled(log, c, err, "unhandled error")
	return http.StatusInternalServerError, err.Error(), nil
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error, msg string) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg(msg)
}
