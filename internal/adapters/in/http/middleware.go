package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// PrintAgentAuth returns a middleware that guards the print-agent endpoints
// with a shared bearer token. A rejected request changes no state.
func PrintAgentAuth(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				return ctx.JSON(http.StatusUnauthorized, Error{
					Code:    http.StatusUnauthorized,
					Message: "invalid or missing print agent token",
				})
			}
			return next(ctx)
		}
	}
}
