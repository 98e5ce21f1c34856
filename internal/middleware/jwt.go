package middleware

import (
	"context"
	"strings"

	"stockaudit/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionMiddleware resolves an optional manager session JWT into the request
// context. Requests without a token (or with an invalid one) proceed
// anonymously; counting endpoints accept anonymous operators by policy.
func SessionMiddleware(jwtSecret string) echo.MiddlewareFunc {
	secret := []byte(jwtSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return next(c)
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return next(c)
			}

			sub, err := token.Claims.GetSubject()
			if err != nil {
				return next(c)
			}
			managerID, err := uuid.Parse(sub)
			if err != nil {
				return next(c)
			}

			ctx := context.WithValue(c.Request().Context(), common.ManagerIDKey, managerID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
