package models

import "time"

// Session is an issued sign-in session
type Session struct {
	Token     string    `json:"-"`
	TokenID   string    `json:"token_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	IssuedAt  time.Time `json:"issued_at"`
}
