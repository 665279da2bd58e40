package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/account-service/internal/model"
	"github.com/iliyamo/account-service/internal/service"
)

// AdminHandler serves the user management endpoints. Routes using it must
// sit behind Authenticate and RequireRole(model.RoleAdmin).
type AdminHandler struct {
	Svc *service.AuthService
}

func NewAdminHandler(svc *service.AuthService) *AdminHandler {
	return &AdminHandler{Svc: svc}
}

// ListUsers: every account, admin view.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]model.AdminUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Admin())
	}
	return c.JSON(http.StatusOK, out)
}

// GetUser: one account by id.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	u, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u.Admin())
}

// UpdateUser: partial update of any account, including role and status.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var patch model.AdminPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&patch); err != nil {
		return err
	}

	updated, err := h.Svc.AdminUpdate(c.Request().Context(), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user updated by admin", User: updated.Admin()})
}
