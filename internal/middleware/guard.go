package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/account-service/internal/model"
	"github.com/iliyamo/account-service/internal/repository"
	"github.com/iliyamo/account-service/internal/service"
)

// TokenValidator turns a raw bearer token into the subject's user id.
type TokenValidator interface {
	Validate(raw string) (int64, error)
}

// UserLookup loads the user a token refers to.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Authenticate returns an Echo middleware that resolves the bearer token in
// the Authorization header to a stored user. A missing or bad token, or a
// token whose subject no longer exists, ends the request with 401 and a
// Bearer challenge. On success the user is available via CurrentUser.
func Authenticate(tokens TokenValidator, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c, errors.New("missing bearer token"))
			}
			id, err := tokens.Validate(raw)
			if err != nil {
				return unauthorized(c, err)
			}
			u, err := users.GetByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return unauthorized(c, err)
				}
				return err
			}
			c.Set(userKey, u)
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <t>" value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c echo.Context, cause error) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthorized.Error()).SetInternal(cause)
}
