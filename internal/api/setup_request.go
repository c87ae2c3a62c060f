package api

// swagger:model api.SetupRequest
type SetupRequest struct {
	Password string `json:"password" validate:"required,min=6" example:"Secret123!"`
}
