package api

// swagger:model api.CreateDashboardRequest
type CreateDashboardRequest struct {
	Name        string  `json:"name" validate:"required" example:"Q1 pipeline"`
	Description *string `json:"description" example:"2026 Q1 售前案件"`
}
