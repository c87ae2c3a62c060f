package api

import (
	"time"

	"presales-board/internal/model"
)

// swagger:model api.UserResponse
type UserResponse struct {
	ID          int        `json:"id" example:"1"`
	Username    string     `json:"username" example:"alice"`
	Role        model.Role `json:"role" example:"user"`
	CreatedAt   time.Time  `json:"created_at" example:"2025-05-01T15:04:05Z07:00"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// NewUserResponse 由使用者資料列組裝回應。
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
