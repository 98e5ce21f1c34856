package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stockaudit/internal/models"
	"stockaudit/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func postAdminLogin(t *testing.T, h *AdminAuthHandlers, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return rec, h.Login(c)
}

func TestAdminLogin_Success(t *testing.T) {
	tokenService := services.NewAdminTokenService("test-secret", nil)
	h := NewAdminAuthHandlers(tokenService, "hunter2")

	rec, err := postAdminLogin(t, h, `{"password":"hunter2"}`)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.AdminTokenResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	// The handler must hand back a token that verifies.
	_, err = tokenService.Verify(resp.Token)
	assert.NoError(t, err)
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	h := NewAdminAuthHandlers(services.NewAdminTokenService("test-secret", nil), "hunter2")

	_, err := postAdminLogin(t, h, `{"password":"nope"}`)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAdminLogin_EmptyPassword(t *testing.T) {
	h := NewAdminAuthHandlers(services.NewAdminTokenService("test-secret", nil), "hunter2")

	_, err := postAdminLogin(t, h, `{"password":""}`)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
