package handler // handler defines http handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-help-desk/internal/auth"
	"github.com/iliyamo/school-help-desk/internal/middleware"
	"github.com/iliyamo/school-help-desk/internal/utils"
)

// currentClaims pulls the typed claims stored by the JWT middleware. A
// missing value means the route was wired without JWTAuth, which is a
// programming error surfaced as 401.
func currentClaims(c echo.Context) (utils.Claims, error) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return utils.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return claims, nil
}

// authError maps the auth service error taxonomy onto HTTP responses.
// Credential and token failures share generic messages so a caller cannot
// probe which sub-check failed.
func authError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
	case errors.Is(err, auth.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case errors.Is(err, auth.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, auth.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
