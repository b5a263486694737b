package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// BodyLimit caps JSON and urlencoded bodies at limit (e.g. "16K") and
// multipart bodies at multipartLimit bytes. multipartLimit <= 0 leaves
// multipart bodies unbounded.
func BodyLimit(limit string, multipartLimit int64) echo.MiddlewareFunc {
	plain := echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
		Limit:   limit,
		Skipper: isMultipart,
	})
	if multipartLimit <= 0 {
		return plain
	}
	multipart := echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
		Limit: fmt.Sprintf("%dB", multipartLimit),
		Skipper: func(c echo.Context) bool {
			return !isMultipart(c)
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return plain(multipart(next))
	}
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
