package routes

import (
	"clientschedule/cmd/internal/utils"
	"clientschedule/cmd/internal/utils/apierror"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireToken guards a route group with the bearer token issued at login.
func RequireToken(secret []byte) echo.MiddlewareFunc {
	return utils.RequireToken(secret, func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	})
}
