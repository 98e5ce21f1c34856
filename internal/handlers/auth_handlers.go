package handlers

import (
	"errors"
	"net/http"

	"stockaudit/internal/models"
	"stockaudit/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles manager session authentication
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// LoginRequest represents the manager login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the manager login response
type LoginResponse struct {
	models.SessionTokenResponse
	Manager *models.Manager `json:"manager"`
}

// Login handles manager login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	tokenResponse, manager, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign in")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		SessionTokenResponse: *tokenResponse,
		Manager:              manager,
	})
}
