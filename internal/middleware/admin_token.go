package middleware

import (
	"net/http"
	"strings"

	"stockaudit/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminTokenMiddleware gates administrative mutation endpoints. The token is
// read from "Authorization: Bearer <token>" or "X-Admin-Token"; any failure
// yields the same generic 401 body so verification reasons never leak.
func AdminTokenMiddleware(tokenService services.AdminTokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				if trimmed := strings.TrimPrefix(authHeader, "Bearer "); trimmed != authHeader {
					token = trimmed
				}
			}
			if token == "" {
				token = c.Request().Header.Get("X-Admin-Token")
			}
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Admin authorization required")
			}

			if _, err := tokenService.Verify(token); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Admin authorization required")
			}
			return next(c)
		}
	}
}
