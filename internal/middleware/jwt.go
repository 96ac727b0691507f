package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-help-desk/internal/utils"
)

// claimsKey is the context key holding the typed claims of the current
// request. Handlers read it through CurrentClaims.
const claimsKey = "claims"

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects its typed claims into the request context. Claims are parsed
// exactly once here; everything downstream works with the
// utils.Claims struct instead of re-reading the raw JWT. Missing, expired
// and tampered tokens are all answered with the same 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(claimsKey, claims)
			// string forms for middleware that keys on them (rate limiter)
			c.Set("user_id", strconv.FormatUint(claims.UserID, 10))
			c.Set("role", string(claims.Role))
			return next(c)
		}
	}
}

// CurrentClaims returns the typed claims stored by JWTAuth. The boolean is
// false on routes that did not pass through the middleware.
func CurrentClaims(c echo.Context) (utils.Claims, bool) {
	claims, ok := c.Get(claimsKey).(utils.Claims)
	return claims, ok
}
