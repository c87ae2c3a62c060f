package api

// swagger:model api.UpdateDashboardRequest
type UpdateDashboardRequest struct {
	Name        string  `json:"name" validate:"required" example:"Q1 pipeline"`
	Description *string `json:"description"`
}
