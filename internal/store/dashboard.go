package store

import (
	"context"
	"fmt"

	"presales-board/internal/database"
	"presales-board/internal/model"

	"github.com/jackc/pgx/v5"
)

// CreateDashboard 在單一交易內建立看板並授予建立者 admin 權限，
// 任一步失敗即整體回滾。
func CreateDashboard(ctx context.Context, db database.DB, d *model.Dashboard, creatorID int) (*model.Dashboard, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("CreateDashboard: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // commit 之後為 no-op

	row := tx.QueryRow(ctx,
		`INSERT INTO dashboards (name, description, created_by)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		d.Name,
		d.Description,
		creatorID,
	)
	if err := row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, fmt.Errorf("CreateDashboard: insert dashboard: %w", err)
	}
	d.CreatedBy = &creatorID

	if _, err := tx.Exec(ctx,
		`INSERT INTO dashboard_permissions (dashboard_id, user_id, permission_level)
		 VALUES ($1, $2, $3)`,
		d.ID,
		creatorID,
		model.PermissionAdmin,
	); err != nil {
		return nil, fmt.Errorf("CreateDashboard: insert permission: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("CreateDashboard: commit: %w", err)
	}
	return d, nil
}

func scanDashboards(rows pgx.Rows) ([]model.Dashboard, error) {
	dashboards := []model.Dashboard{}
	for rows.Next() {
		var d model.Dashboard
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Description,
			&d.CreatedBy,
			&d.CreatorName,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanDashboards: %w", err)
		}
		dashboards = append(dashboards, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanDashboards: %w", err)
	}
	return dashboards, nil
}

func GetDashboardByID(ctx context.Context, db database.DB, dashboardID int) (*model.Dashboard, error) {
	row := db.QueryRow(ctx,
		`SELECT d.id, d.name, d.description, d.created_by, u.username, d.created_at, d.updated_at
		 FROM dashboards d
		 LEFT JOIN users u ON u.id = d.created_by
		 WHERE d.id = $1`,
		dashboardID,
	)
	d := &model.Dashboard{}
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&d.CreatedBy,
		&d.CreatorName,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("GetDashboardByID: %w", err)
	}
	return d, nil
}

// ListAllDashboards 回傳全部看板，建立時間新到舊，供系統管理員使用。
func ListAllDashboards(ctx context.Context, db database.DB) ([]model.Dashboard, error) {
	rows, err := db.Query(ctx,
		`SELECT d.id, d.name, d.description, d.created_by, u.username, d.created_at, d.updated_at
		 FROM dashboards d
		 LEFT JOIN users u ON u.id = d.created_by
		 ORDER BY d.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListAllDashboards: %w", err)
	}
	defer rows.Close()
	return scanDashboards(rows)
}

// ListDashboardsForUser 回傳使用者持有任一權限的看板，建立時間新到舊。
func ListDashboardsForUser(ctx context.Context, db database.DB, userID int) ([]model.Dashboard, error) {
	rows, err := db.Query(ctx,
		`SELECT d.id, d.name, d.description, d.created_by, u.username, d.created_at, d.updated_at
		 FROM dashboards d
		 JOIN dashboard_permissions p ON p.dashboard_id = d.id AND p.user_id = $1
		 LEFT JOIN users u ON u.id = d.created_by
		 ORDER BY d.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListDashboardsForUser: %w", err)
	}
	defer rows.Close()
	return scanDashboards(rows)
}

func UpdateDashboard(ctx context.Context, db database.DB, d *model.Dashboard) error {
	_, err := db.Exec(ctx,
		`UPDATE dashboards SET name = $1, description = $2, updated_at = now()
		 WHERE id = $3`,
		d.Name,
		d.Description,
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateDashboard: %w", err)
	}
	return nil
}

// DeleteDashboard 刪除看板；其權限列由 FK ON DELETE CASCADE 一併移除。
func DeleteDashboard(ctx context.Context, db database.DB, dashboardID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM dashboards WHERE id = $1`,
		dashboardID,
	)
	if err != nil {
		return fmt.Errorf("DeleteDashboard: %w", err)
	}
	return nil
}
