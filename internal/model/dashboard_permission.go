// File: internal/model/dashboard_permission.go
package model

import "time"

type PermissionLevel string

const (
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
	PermissionAdmin PermissionLevel = "admin"
)

// Valid 回報 level 是否為合法的權限等級。
func (l PermissionLevel) Valid() bool {
	switch l {
	case PermissionRead, PermissionWrite, PermissionAdmin:
		return true
	}
	return false
}

// DashboardPermission 看板授權資料列，(dashboard_id, user_id) 具唯一約束。
// Username 由查詢 JOIN users 填入，不對應任何欄位。
type DashboardPermission struct {
	ID          int             `db:"id" json:"id"`
	DashboardID int             `db:"dashboard_id" json:"dashboard_id"`
	UserID      int             `db:"user_id" json:"user_id"`
	Level       PermissionLevel `db:"permission_level" json:"permission_level"`
	Username    string          `db:"-" json:"username,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
