package handlers

import (
	"crypto/subtle"
	"net/http"

	"stockaudit/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminAuthHandlers issues the stateless admin token used to gate the
// access-grant administration endpoints.
type AdminAuthHandlers struct {
	tokenService  services.AdminTokenService
	adminPassword string
}

func NewAdminAuthHandlers(tokenService services.AdminTokenService, adminPassword string) *AdminAuthHandlers {
	return &AdminAuthHandlers{
		tokenService:  tokenService,
		adminPassword: adminPassword,
	}
}

// AdminLoginRequest represents the admin login request payload
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the admin password for a short-lived signed token.
func (h *AdminAuthHandlers) Login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Password is required")
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid password")
	}

	return c.JSON(http.StatusOK, h.tokenService.Issue())
}
