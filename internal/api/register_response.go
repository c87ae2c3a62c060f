package api

// swagger:model api.RegisterResponse
type RegisterResponse struct {
	UserID int `json:"userId" example:"1"`
}
