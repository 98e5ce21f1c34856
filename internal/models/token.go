package models

// AdminTokenResponse is the wire response for a freshly issued admin token.
type AdminTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	ExpiresAt int64  `json:"expires_at"` // epoch milliseconds
}

// SessionTokenResponse is the wire response for a manager session JWT.
type SessionTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
