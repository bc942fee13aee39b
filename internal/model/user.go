package model

import "time"

// User mirrors the profile the backend returns from /auth/me. It is read-only
// on this side; the dashboard never derives state from it beyond display.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	FullName         string     `json:"full_name"`
	Phone            string     `json:"phone,omitempty"`
	Company          string     `json:"company,omitempty"`
	Role             string     `json:"role"`
	Tier             string     `json:"tier"`
	CreditsRemaining int        `json:"credits_remaining"`
	EmailVerified    bool       `json:"email_verified"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// TokenPair is the backend's token response for login, register and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
