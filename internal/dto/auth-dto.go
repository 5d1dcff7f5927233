package dto

import (
	"time"

	"testpark-console/internal/entities"
)

type LoginDTO struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

type LoginResponseDTO struct {
	Token       string        `json:"token"`
	ExpiresIn   int64         `json:"expires_in"`
	User        entities.User `json:"user"`
	Permissions []string      `json:"permissions"`
}

// SessionDTO - ответ GET /auth/me.
type SessionDTO struct {
	User        entities.User `json:"user"`
	Permissions []string      `json:"permissions"`
	IssuedAt    time.Time     `json:"issued_at"`
}
