package api

// swagger:model api.GrantPermissionRequest
type GrantPermissionRequest struct {
	TargetUserID    int    `json:"targetUserId" validate:"required" example:"2"`
	PermissionLevel string `json:"permissionLevel" validate:"required,oneof=read write admin" example:"read"`
}
