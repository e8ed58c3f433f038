package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const tokenTTL = 30 * 24 * time.Hour

// SignToken issues the bearer token returned by register/login.
func SignToken(userID uint, isAdmin bool, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":     float64(userID),
		"isAdmin": isAdmin,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

type TokenService struct {
	JWTSecret []byte
}

func (t *TokenService) parseBearer(c echo.Context) (jwt.MapClaims, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, errors.New("missing bearer token")
	}

	token, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("cannot parse claims")
	}
	return claims, nil
}

func (t *TokenService) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := t.parseBearer(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token failed")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

func (t *TokenService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return t.RequireLogin(func(c echo.Context) error {
		if !IsAdmin(c) {
			return echo.NewHTTPError(http.StatusForbidden, "not authorized as admin")
		}
		return next(c)
	})
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(float64); ok {
		c.Set("userID", uint(sub))
	}
	admin, _ := claims["isAdmin"].(bool)
	c.Set("isAdmin", admin)
}

// UserID reads the authenticated user from the request context.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok || id == 0 {
		return 0, errors.New("unauthorized")
	}
	return id, nil
}

func IsAdmin(c echo.Context) bool {
	admin, _ := c.Get("isAdmin").(bool)
	return admin
}
