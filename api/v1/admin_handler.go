package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/SlawCzech/dev-me-up/internal/user"
)

// AdminHandler exposes the staff-only reporting query that replaces the
// old admin panel: filter accounts by email, username and active flag,
// most recently logged-in first.
type AdminHandler struct {
	svc *user.AccountService
}

func NewAdminHandler(svc *user.AccountService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/admin/users", h.ListUsers)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	principal, err := resolvePrincipal(c, h.svc)
	if err != nil {
		return err
	}

	filter := user.ListFilter{
		Email:    c.QueryParam("email"),
		Username: c.QueryParam("username"),
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid is_active filter")
		}
		filter.IsActive = &active
	}

	users, err := h.svc.ListUsers(c.Request().Context(), principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
