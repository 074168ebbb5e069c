package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/SlawCzech/dev-me-up/api/middleware"
	"github.com/SlawCzech/dev-me-up/internal/user"
)

type UserHandler struct {
	svc *user.AccountService
}

func NewUserHandler(svc *user.AccountService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterPublicRoutes wires the endpoints reachable without a bearer token.
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/users", h.CreateUser)
	g.POST("/register", h.Register)
	g.GET("/activate/:uid/:token", h.Activate)
	g.POST("/users/anonymous", h.CreateAnonymousUser)
	g.GET("/users/nickname", h.GenerateNickname)
	g.POST("/users/password-reset", h.RequestPasswordReset)
	g.POST("/users/password-reset/:uid/:token", h.ConfirmPasswordReset)
}

// RegisterProtectedRoutes wires the endpoints behind the JWT middleware.
func (h *UserHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/summary", h.GetUserSummary)
	g.PUT("/users/update", h.UpdateUser)
	g.PUT("/users/profile", h.UpdateProfile)
	g.DELETE("/users/:id", h.DeleteUser)
	g.POST("/users/deactivate/:id", h.Deactivate)
}

// resolvePrincipal loads the authenticated user behind the JWT claims.
// Every protected handler resolves through here so the 401 behavior
// cannot drift between them.
func resolvePrincipal(c echo.Context, svc *user.AccountService) (*user.User, error) {
	id, ok := middleware.ClaimsUserID(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	u, err := svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return u, nil
}

func (h *UserHandler) principal(c echo.Context) (*user.User, error) {
	return resolvePrincipal(c, h.svc)
}

func targetID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	return uint(id), nil
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	var req user.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	resp, err := h.svc.CreateUser(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Register(c echo.Context) error {
	var req user.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	resp, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Activate(c echo.Context) error {
	detail, err := h.svc.Activate(c.Request().Context(), c.Param("uid"), c.Param("token"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": detail})
}

func (h *UserHandler) CreateAnonymousUser(c echo.Context) error {
	anon, err := h.svc.CreateAnonymousUser(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, anon)
}

func (h *UserHandler) GenerateNickname(c echo.Context) error {
	return c.JSON(http.StatusOK, user.GenerateNickname())
}

func (h *UserHandler) RequestPasswordReset(c echo.Context) error {
	var req user.PasswordReminderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	detail, err := h.svc.RequestPasswordReset(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": detail})
}

func (h *UserHandler) ConfirmPasswordReset(c echo.Context) error {
	var req user.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	detail, err := h.svc.ConfirmPasswordReset(c.Request().Context(), c.Param("uid"), c.Param("token"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": detail})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	principal, err := h.principal(c)
	if err != nil {
		return err
	}
	id, err := targetID(c)
	if err != nil {
		return err
	}
	resp, err := h.svc.GetUser(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUserSummary returns the minimal id/username shape for cross-system
// references. It is not admin-or-self guarded; any authenticated user may
// resolve another user's display name.
func (h *UserHandler) GetUserSummary(c echo.Context) error {
	if _, err := h.principal(c); err != nil {
		return err
	}
	id, err := targetID(c)
	if err != nil {
		return err
	}
	resp, err := h.svc.GetUserSummary(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	principal, err := h.principal(c)
	if err != nil {
		return err
	}
	var req user.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	resp, err := h.svc.UpdateUser(c.Request().Context(), principal, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	principal, err := h.principal(c)
	if err != nil {
		return err
	}
	var req user.ProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	profile, err := h.svc.UpdateProfile(c.Request().Context(), principal, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	principal, err := h.principal(c)
	if err != nil {
		return err
	}
	id, err := targetID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteUser(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) Deactivate(c echo.Context) error {
	principal, err := h.principal(c)
	if err != nil {
		return err
	}
	id, err := targetID(c)
	if err != nil {
		return err
	}
	message, err := h.svc.Deactivate(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message})
}
