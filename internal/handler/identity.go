package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"cardvault/internal/auth"
)

// identityFrom extracts the authenticated identity placed in the echo
// context by the JWT middleware.
func identityFrom(c echo.Context) (auth.Identity, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	identity, err := claims.Identity()
	if err != nil {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return identity, nil
}

// pageParams reads page/size query parameters with defaults.
func pageParams(c echo.Context) (page, size int) {
	page, size = 0, 10
	echo.QueryParamsBinder(c).Int("page", &page).Int("size", &size)
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return page, size
}
