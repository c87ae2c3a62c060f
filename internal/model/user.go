// File: internal/model/user.go
package model

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User 使用者資料列。PasswordHash 為 nil 表示密碼尚未設定，
// 僅允許出現在預建的 admin 帳號上。
type User struct {
	ID           int        `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash *string    `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

// IsGlobalAdmin 回報使用者是否為系統管理員。
func (u *User) IsGlobalAdmin() bool {
	return u.Role == RoleAdmin
}
