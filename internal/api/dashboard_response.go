package api

import (
	"time"

	"presales-board/internal/model"
)

// swagger:model api.DashboardResponse
type DashboardResponse struct {
	ID          int       `json:"id" example:"1"`
	Name        string    `json:"name" example:"Q1 pipeline"`
	Description *string   `json:"description"`
	CreatedBy   *int      `json:"created_by"`
	CreatorName *string   `json:"creator_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDashboardResponse 由看板資料列組裝回應。
func NewDashboardResponse(d *model.Dashboard) DashboardResponse {
	return DashboardResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedBy:   d.CreatedBy,
		CreatorName: d.CreatorName,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
