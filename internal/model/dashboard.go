// File: internal/model/dashboard.go
package model

import "time"

// Dashboard 看板資料列。CreatedBy 在建立者被刪除後設為 nil (FK SET NULL)。
// CreatorName 由查詢 JOIN users 填入，不對應任何欄位。
type Dashboard struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedBy   *int      `db:"created_by" json:"created_by"`
	CreatorName *string   `db:"-" json:"creator_name,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
