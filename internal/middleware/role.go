package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/account-service/internal/model"
	"github.com/iliyamo/account-service/internal/service"
)

// RequireRole returns a middleware that lets the request through only when
// the authenticated user holds role. It must run after Authenticate; without
// a resolved user the request is treated as unauthenticated.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return unauthorized(c, nil)
			}
			if u.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, service.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}
