package models

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        uuid.UUID `json:"id" example:"a1b2c3d4-e5f6-7890-1234-567890abcdef"`
	UserID    int64     `json:"-"`
	ClientIP  string    `json:"client_ip" example:"198.51.100.10"`
	Browser   string    `json:"browser" example:"Firefox"`
	OS        string    `json:"os" example:"Linux"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
