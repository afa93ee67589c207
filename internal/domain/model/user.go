package model

import (
	"time"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	Avatar         string    `json:"avatar"`
	CoverImage     string    `json:"coverImage"`
	HashedPassword string    `json:"-"` // Not exposed
	RefreshToken   string    `json:"-"` // Not exposed
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
