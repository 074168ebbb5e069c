package user

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL  = 72 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type JwtCustomClaims struct {
	Id        uint   `json:"id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

var GenerateJWT = func(id uint) (string, error) {
	return signToken(id, "access", accessTokenTTL)
}

var GenerateRefreshJWT = func(id uint) (string, error) {
	return signToken(id, "refresh", refreshTokenTTL)
}

func signToken(id uint, tokenType string, ttl time.Duration) (string, error) {
	claims := JwtCustomClaims{
		Id:        id,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// ValidateJWT parses an access token and returns the user id it carries.
func ValidateJWT(tokenString string) (uint, error) {
	return parseToken(tokenString, "access")
}

// ValidateRefreshJWT parses a refresh token and returns the user id.
func ValidateRefreshJWT(tokenString string) (uint, error) {
	return parseToken(tokenString, "refresh")
}

func parseToken(tokenString, wantType string) (uint, error) {
	claims := &JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}
	if claims.TokenType != wantType {
		return 0, errors.New("wrong token type")
	}
	return claims.Id, nil
}
