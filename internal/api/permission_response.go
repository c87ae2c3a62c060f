package api

import (
	"time"

	"presales-board/internal/model"
)

// swagger:model api.PermissionResponse
type PermissionResponse struct {
	ID          int                   `json:"id" example:"1"`
	DashboardID int                   `json:"dashboard_id" example:"1"`
	UserID      int                   `json:"user_id" example:"2"`
	Username    string                `json:"username,omitempty" example:"bob"`
	Level       model.PermissionLevel `json:"permission_level" example:"read"`
	CreatedAt   time.Time             `json:"created_at"`
}

// NewPermissionResponse 由權限資料列組裝回應。
func NewPermissionResponse(p *model.DashboardPermission) PermissionResponse {
	return PermissionResponse{
		ID:          p.ID,
		DashboardID: p.DashboardID,
		UserID:      p.UserID,
		Username:    p.Username,
		Level:       p.Level,
		CreatedAt:   p.CreatedAt,
	}
}
