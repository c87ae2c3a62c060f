// File: internal/service/authorization.go
package service

import (
	"context"

	"presales-board/internal/database"
	"presales-board/internal/model"
	"presales-board/internal/store"
)

// 測試替換點
var (
	hasAnyPermission   = store.HasAnyPermission
	hasPermissionLevel = store.HasPermissionLevel
)

// CanRead 回報使用者能否讀取看板：
// 系統管理員一律放行，其餘需持有任一等級的權限列。
func CanRead(ctx context.Context, db database.DB, user *model.User, dashboardID int) (bool, error) {
	if user.IsGlobalAdmin() {
		return true, nil
	}
	return hasAnyPermission(ctx, db, dashboardID, user.ID)
}

// CanAdminister 回報使用者能否管理看板（更新、刪除、權限異動）：
// 系統管理員一律放行，其餘需持有 admin 等級的權限列。
func CanAdminister(ctx context.Context, db database.DB, user *model.User, dashboardID int) (bool, error) {
	if user.IsGlobalAdmin() {
		return true, nil
	}
	return hasPermissionLevel(ctx, db, dashboardID, user.ID, model.PermissionAdmin)
}
