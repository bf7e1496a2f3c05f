package models

import "time"

const (
	RoleAdmin = "admin"
	RoleOwner = "owner"
	RoleUser  = "user"
)

type User struct {
	ID               int64     `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     string    `json:"-" db:"password_hash"`
	DisplayName      *string   `json:"display_name,omitempty" db:"display_name"`
	Picture          *string   `json:"picture,omitempty" db:"picture"`
	Role             string    `json:"role" db:"role"`
	Verified         bool      `json:"verified" db:"verified"`
	VerificationCode *string   `json:"-" db:"verification_code"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
