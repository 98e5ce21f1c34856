package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"stockaudit/internal/models"
)

// DefaultAdminTokenSecret is an insecure fallback for development. Secret
// selection is a deployment concern; any string is accepted.
const DefaultAdminTokenSecret = "stockaudit-insecure-dev-secret"

const adminTokenLifetime = 3600 // seconds

// ErrInvalidAdminToken covers every verification failure. Callers must not
// surface the distinct reasons to clients.
var ErrInvalidAdminToken = errors.New("invalid admin token")

// AdminTokenClaims is the token payload. Expiry is the only claim.
type AdminTokenClaims struct {
	Exp int64 `json:"exp"`
}

// AdminTokenService issues and verifies the stateless admin credential. The
// wire format is three dot-joined URL-safe-base64 segments: a fixed JSON
// header, a payload carrying only the expiry, and an HMAC-SHA256 signature
// over "header.payload". The framing is contractual and must not change.
type AdminTokenService interface {
	Issue() *models.AdminTokenResponse
	Verify(token string) (*AdminTokenClaims, error)
}

type adminTokenService struct {
	secret []byte
	now    func() time.Time
}

// NewAdminTokenService builds a codec around the supplied secret and clock.
// A zero-value now defaults to time.Now.
func NewAdminTokenService(secret string, now func() time.Time) AdminTokenService {
	if secret == "" {
		secret = DefaultAdminTokenSecret
	}
	if now == nil {
		now = time.Now
	}
	return &adminTokenService{secret: []byte(secret), now: now}
}

var adminTokenHeader = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

func (s *adminTokenService) sign(signingInput string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *adminTokenService) Issue() *models.AdminTokenResponse {
	exp := s.now().Unix() + adminTokenLifetime
	payload, _ := json.Marshal(AdminTokenClaims{Exp: exp})
	signingInput := adminTokenHeader + "." + base64.RawURLEncoding.EncodeToString(payload)

	return &models.AdminTokenResponse{
		Token:     signingInput + "." + s.sign(signingInput),
		ExpiresIn: adminTokenLifetime,
		ExpiresAt: exp * 1000,
	}
}

func (s *adminTokenService) Verify(token string) (*AdminTokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidAdminToken
	}

	expected := s.sign(parts[0] + "." + parts[1])
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil, ErrInvalidAdminToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidAdminToken
	}
	claims := &AdminTokenClaims{}
	if err := json.Unmarshal(payload, claims); err != nil || claims.Exp == 0 {
		return nil, ErrInvalidAdminToken
	}
	if claims.Exp <= s.now().Unix() {
		return nil, ErrInvalidAdminToken
	}
	return claims, nil
}
