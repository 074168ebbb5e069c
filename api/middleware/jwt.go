package middleware

import (
	"os"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SlawCzech/dev-me-up/internal/user"
)

// SetupJWTMiddleware builds the bearer-token middleware for protected
// routes. Claims are stored on the context under "user".
func SetupJWTMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(os.Getenv("JWT_SECRET")),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(user.JwtCustomClaims)
		},
	})
}

// ClaimsUserID extracts the authenticated user id set by the JWT
// middleware. The second return is false for refresh tokens presented as
// access tokens.
func ClaimsUserID(c echo.Context) (uint, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0, false
	}
	claims, ok := token.Claims.(*user.JwtCustomClaims)
	if !ok {
		return 0, false
	}
	if claims.TokenType != "access" {
		return 0, false
	}
	return claims.Id, true
}
