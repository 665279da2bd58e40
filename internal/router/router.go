package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/account-service/internal/handler"
	"github.com/iliyamo/account-service/internal/middleware"
	"github.com/iliyamo/account-service/internal/model"
)

// Setup installs the error handler, the request validator and the global
// middleware chain on e.
func Setup(e *echo.Echo, corsOrigins []string, errLog *log.Logger) {
	e.HTTPErrorHandler = handler.ErrorHandler(errLog)
	e.Validator = handler.NewRequestValidator()

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestTimer())
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			errLog.Errorj(log.JSON{
				"event":  "PANIC",
				"ip":     c.RealIP(),
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
				"error":  err.Error(),
				"stack":  string(stack),
			})
			return err
		},
	}))

	wildcard := len(corsOrigins) == 0 || slices.Contains(corsOrigins, "*")
	origins := corsOrigins
	if wildcard {
		origins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderOrigin},
		AllowCredentials: !wildcard,
	}))
}

// RegisterRoutes registers routes that do not require authentication and
// live outside the API prefix. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, store handler.Pinger) {
	e.GET("/healthz", handler.Health(store))
}

// RegisterAuth registers the account routes under prefix. Signup and login
// are open; the self-service routes need a bearer token resolved by guard;
// the admin routes additionally need the admin role.
func RegisterAuth(e *echo.Echo, prefix string, a *handler.AuthHandler, adm *handler.AdminHandler, guard echo.MiddlewareFunc) {
	g := e.Group(prefix)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)

	// middleware is attached per route so unknown paths under prefix
	// still answer 404
	g.GET("/me", a.Me, guard)
	g.PATCH("/update-profile", a.UpdateProfile, guard)
	g.DELETE("/me", a.DeleteMe, guard)

	adminOnly := []echo.MiddlewareFunc{guard, middleware.RequireRole(model.RoleAdmin)}
	g.GET("/admin/users", adm.ListUsers, adminOnly...)
	g.GET("/users/:id", adm.GetUser, adminOnly...)
	g.PATCH("/admin/update-profile", adm.UpdateUser, adminOnly...)
}
