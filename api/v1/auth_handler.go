package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SlawCzech/dev-me-up/internal/user"
)

type AuthHandler struct {
	svc *user.AccountService
}

func NewAuthHandler(svc *user.AccountService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterAuthRoutes wires the token-issuance endpoints.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/token", h.ObtainTokenPair)
	g.POST("/token/refresh", h.RefreshToken)
}

type TokenObtainRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenRefreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) ObtainTokenPair(c echo.Context) error {
	var req TokenObtainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	access, refresh, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"access": access, "refresh": refresh})
}

func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req TokenRefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	access, err := h.svc.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"access": access})
}
