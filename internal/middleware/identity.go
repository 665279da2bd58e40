package middleware

// identity.go holds the context keys shared by the middleware in this
// package and the accessors handlers use to read them back.

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/account-service/internal/model"
)

const (
	userKey  = "auth_user"
	startKey = "request_start"
)

// CurrentUser returns the user resolved by Authenticate.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(userKey).(*model.User)
	return u, ok && u != nil
}

// RequestTimer records when the request entered the stack so the error
// handler can report how long it took.
func RequestTimer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(startKey, time.Now())
			return next(c)
		}
	}
}

// Elapsed returns the time since RequestTimer ran, or zero when it did not.
func Elapsed(c echo.Context) time.Duration {
	start, ok := c.Get(startKey).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}
