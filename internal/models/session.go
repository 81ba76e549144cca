package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a refresh-token login of a user. The token itself is never
// serialized back to clients.
type Session struct {
	ID           uuid.UUID `json:"id" example:"5f0c6a0e-2b7d-4b8e-9a43-0d7f4c1e9b21"`
	UserID       int64     `json:"-"`
	RefreshToken string    `json:"-"`
	UserAgent    string    `json:"user_agent" example:"curl/8.5.0"`
	ClientIP     string    `json:"client_ip" example:"203.0.113.7"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
