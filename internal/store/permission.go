package store

import (
	"context"
	"fmt"

	"presales-board/internal/database"
	"presales-board/internal/model"
)

// GetPermission 查詢單一 (dashboard, user) 的權限列。
func GetPermission(ctx context.Context, db database.DB, dashboardID, userID int) (*model.DashboardPermission, error) {
	row := db.QueryRow(ctx,
		`SELECT id, dashboard_id, user_id, permission_level, created_at
		 FROM dashboard_permissions
		 WHERE dashboard_id = $1 AND user_id = $2`,
		dashboardID,
		userID,
	)
	p := &model.DashboardPermission{}
	if err := row.Scan(
		&p.ID,
		&p.DashboardID,
		&p.UserID,
		&p.Level,
		&p.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("GetPermission: %w", err)
	}
	return p, nil
}

// HasAnyPermission 回報使用者對看板是否持有任一等級的權限。
func HasAnyPermission(ctx context.Context, db database.DB, dashboardID, userID int) (bool, error) {
	row := db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM dashboard_permissions
		   WHERE dashboard_id = $1 AND user_id = $2)`,
		dashboardID,
		userID,
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("HasAnyPermission: %w", err)
	}
	return exists, nil
}

// HasPermissionLevel 回報使用者對看板是否持有指定等級的權限。
func HasPermissionLevel(ctx context.Context, db database.DB, dashboardID, userID int, level model.PermissionLevel) (bool, error) {
	row := db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM dashboard_permissions
		   WHERE dashboard_id = $1 AND user_id = $2 AND permission_level = $3)`,
		dashboardID,
		userID,
		level,
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("HasPermissionLevel: %w", err)
	}
	return exists, nil
}

// ListPermissions 回傳看板的全部權限列並帶出使用者名稱。
func ListPermissions(ctx context.Context, db database.DB, dashboardID int) ([]model.DashboardPermission, error) {
	rows, err := db.Query(ctx,
		`SELECT p.id, p.dashboard_id, p.user_id, p.permission_level, u.username, p.created_at
		 FROM dashboard_permissions p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.dashboard_id = $1
		 ORDER BY p.id`,
		dashboardID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListPermissions: %w", err)
	}
	defer rows.Close()

	permissions := []model.DashboardPermission{}
	for rows.Next() {
		var p model.DashboardPermission
		if err := rows.Scan(
			&p.ID,
			&p.DashboardID,
			&p.UserID,
			&p.Level,
			&p.Username,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListPermissions: %w", err)
		}
		permissions = append(permissions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPermissions: %w", err)
	}
	return permissions, nil
}

// UpsertPermission 寫入權限列；(dashboard_id, user_id) 已存在時覆寫等級，
// 並回報本次是否為新插入。併發下由唯一約束保證不產生重複列。
func UpsertPermission(ctx context.Context, db database.DB, p *model.DashboardPermission) (inserted bool, err error) {
	row := db.QueryRow(ctx,
		`INSERT INTO dashboard_permissions (dashboard_id, user_id, permission_level)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (dashboard_id, user_id)
		 DO UPDATE SET permission_level = EXCLUDED.permission_level
		 RETURNING id, created_at, (xmax = 0)`,
		p.DashboardID,
		p.UserID,
		p.Level,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &inserted); err != nil {
		return false, fmt.Errorf("UpsertPermission: %w", err)
	}
	return inserted, nil
}

// DeletePermission 移除權限列，回傳實際刪除的列數。
func DeletePermission(ctx context.Context, db database.DB, dashboardID, userID int) (int64, error) {
	tag, err := db.Exec(ctx,
		`DELETE FROM dashboard_permissions
		 WHERE dashboard_id = $1 AND user_id = $2`,
		dashboardID,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("DeletePermission: %w", err)
	}
	return tag.RowsAffected(), nil
}
