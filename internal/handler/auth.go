package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/account-service/internal/middleware"
	"github.com/iliyamo/account-service/internal/model"
	"github.com/iliyamo/account-service/internal/service"
)

// AuthHandler bundles dependencies for the account endpoints.
type AuthHandler struct {
	Svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

// ----- DTOs -----

// signupReq has no role field; anything the caller sends under "role" is
// dropped by the decoder.
type signupReq struct {
	Username string `json:"username" form:"username" validate:"required,max=255"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,maxbytes=72"`
}

// loginReq accepts a JSON body or an OAuth2 password form, where the email
// travels in the username field.
type loginReq struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"-" form:"username"`
	Password string `json:"password" form:"password"`
}

type loginCredentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup: create a plain user account.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.Svc.Signup(c.Request().Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u.Public())
}

// Login: verify credentials and return a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	creds := loginCredentials{Email: req.Email, Password: req.Password}
	if creds.Email == "" {
		creds.Email = req.Username
	}
	if err := c.Validate(&creds); err != nil {
		return err
	}

	res, err := h.Svc.Login(c.Request().Context(), creds.Email, creds.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Me: the caller's own profile.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.Svc.GetSelf(u).Public())
}

// UpdateProfile: partial update of the caller's own account.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var patch model.SelfPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&patch); err != nil {
		return err
	}

	updated, err := h.Svc.UpdateSelf(c.Request().Context(), u, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "profile updated", User: updated.Public()})
}

// DeleteMe: permanently remove the caller's account.
func (h *AuthHandler) DeleteMe(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteSelf(c.Request().Context(), u); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func currentUser(c echo.Context) (*model.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, service.ErrUnauthorized
	}
	return u, nil
}
