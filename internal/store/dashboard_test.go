package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"presales-board/internal/database"
	"presales-board/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

// fakeDashboardRow 支援兩種 Scan 場景：
// 1) len(dest)==3 → CreateDashboard (id, created_at, updated_at)
// 2) len(dest)==7 → GetDashboardByID / list 掃描
type fakeDashboardRow struct {
	scanErr   error
	dashboard *model.Dashboard
}

func (r *fakeDashboardRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	d := r.dashboard
	switch len(dest) {
	case 3:
		*dest[0].(*int) = d.ID
		*dest[1].(*time.Time) = d.CreatedAt
		*dest[2].(*time.Time) = d.UpdatedAt
	case 7:
		*dest[0].(*int) = d.ID
		*dest[1].(*string) = d.Name
		*dest[2].(**string) = d.Description
		*dest[3].(**int) = d.CreatedBy
		*dest[4].(**string) = d.CreatorName
		*dest[5].(*time.Time) = d.CreatedAt
		*dest[6].(*time.Time) = d.UpdatedAt
	default:
		panic("fakeDashboardRow.Scan: unexpected dest count")
	}
	return nil
}

// fakeDashboardRows 以 slice 實作 pgx.Rows。
type fakeDashboardRows struct {
	dashboards []model.Dashboard
	idx        int
	rowsErr    error
}

func (r *fakeDashboardRows) Close()                                       {}
func (r *fakeDashboardRows) Err() error                                   { return r.rowsErr }
func (r *fakeDashboardRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeDashboardRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeDashboardRows) Next() bool {
	if r.rowsErr != nil {
		return false
	}
	return r.idx < len(r.dashboards)
}
func (r *fakeDashboardRows) Scan(dest ...any) error {
	row := fakeDashboardRow{dashboard: &r.dashboards[r.idx]}
	r.idx++
	return row.Scan(dest...)
}
func (r *fakeDashboardRows) Values() ([]any, error) { return nil, nil }
func (r *fakeDashboardRows) RawValues() [][]byte    { return nil }
func (r *fakeDashboardRows) Conn() *pgx.Conn        { return nil }

// fakeTx 實作 pgx.Tx，記錄 commit / rollback 呼叫。
type fakeTx struct {
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	execFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(ctx context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}
func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("unexpected CopyFrom")
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("unexpected SendBatch")
}
func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("unexpected Prepare")
}
func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if t.execFn != nil {
		return t.execFn(ctx, sql, args...)
	}
	panic("unexpected Exec")
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("unexpected Query")
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if t.queryRowFn != nil {
		return t.queryRowFn(ctx, sql, args...)
	}
	panic("unexpected QueryRow")
}
func (t *fakeTx) Conn() *pgx.Conn { return nil }

/* ---------- 測試 ---------- */

func TestCreateDashboard(t *testing.T) {
	now := time.Now().UTC()
	desc := "Q1 pipeline"

	t.Run("success", func(t *testing.T) {
		var permArgs []any
		tx := &fakeTx{
			queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeDashboardRow{dashboard: &model.Dashboard{ID: 10, CreatedAt: now, UpdatedAt: now}}
			},
			execFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
				permArgs = args
				return pgconn.CommandTag{}, nil
			},
		}
		db := &database.FakeDB{
			BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil },
		}

		d, err := CreateDashboard(context.Background(), db, &model.Dashboard{Name: "Q1", Description: &desc}, 3)
		require.NoError(t, err)
		require.Equal(t, 10, d.ID)
		require.NotNil(t, d.CreatedBy)
		require.Equal(t, 3, *d.CreatedBy)
		require.True(t, tx.committed)
		require.Equal(t, []any{10, 3, model.PermissionAdmin}, permArgs)
	})

	t.Run("begin error", func(t *testing.T) {
		db := &database.FakeDB{
			BeginFn: func(context.Context) (pgx.Tx, error) { return nil, errors.New("begin") },
		}
		_, err := CreateDashboard(context.Background(), db, &model.Dashboard{Name: "Q1"}, 3)
		require.Error(t, err)
	})

	t.Run("dashboard insert error rolls back", func(t *testing.T) {
		tx := &fakeTx{
			queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeDashboardRow{scanErr: errors.New("insert")}
			},
		}
		db := &database.FakeDB{
			BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil },
		}
		_, err := CreateDashboard(context.Background(), db, &model.Dashboard{Name: "Q1"}, 3)
		require.Error(t, err)
		require.False(t, tx.committed)
		require.True(t, tx.rolledBack)
	})

	t.Run("permission insert error rolls back", func(t *testing.T) {
		tx := &fakeTx{
			queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeDashboardRow{dashboard: &model.Dashboard{ID: 10, CreatedAt: now, UpdatedAt: now}}
			},
			execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("perm")
			},
		}
		db := &database.FakeDB{
			BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil },
		}
		_, err := CreateDashboard(context.Background(), db, &model.Dashboard{Name: "Q1"}, 3)
		require.Error(t, err)
		require.False(t, tx.committed)
		require.True(t, tx.rolledBack)
	})

	t.Run("commit error", func(t *testing.T) {
		tx := &fakeTx{
			queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeDashboardRow{dashboard: &model.Dashboard{ID: 10, CreatedAt: now, UpdatedAt: now}}
			},
			execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, nil
			},
			commitErr: errors.New("commit"),
		}
		db := &database.FakeDB{
			BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil },
		}
		_, err := CreateDashboard(context.Background(), db, &model.Dashboard{Name: "Q1"}, 3)
		require.Error(t, err)
	})
}

func TestGetDashboardByID(t *testing.T) {
	now := time.Now().UTC()
	creator := 3
	name := "alice"

	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeDashboardRow{dashboard: &model.Dashboard{
					ID: 10, Name: "Q1", CreatedBy: &creator, CreatorName: &name,
					CreatedAt: now, UpdatedAt: now,
				}}
			},
		}
		d, err := GetDashboardByID(context.Background(), db, 10)
		require.NoError(t, err)
		require.Equal(t, "Q1", d.Name)
		require.Equal(t, &name, d.CreatorName)
	})

	t.Run("not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeDashboardRow{scanErr: pgx.ErrNoRows}
			},
		}
		d, err := GetDashboardByID(context.Background(), db, 999)
		require.Error(t, err)
		require.Nil(t, d)
	})
}

func TestListDashboards(t *testing.T) {
	now := time.Now().UTC()
	sample := []model.Dashboard{
		{ID: 2, Name: "newer", CreatedAt: now},
		{ID: 1, Name: "older", CreatedAt: now.Add(-time.Hour)},
	}

	t.Run("all success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeDashboardRows{dashboards: sample}, nil
			},
		}
		ds, err := ListAllDashboards(context.Background(), db)
		require.NoError(t, err)
		require.Len(t, ds, 2)
		require.Equal(t, "newer", ds[0].Name)
	})

	t.Run("all query error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return nil, errors.New("query")
			},
		}
		_, err := ListAllDashboards(context.Background(), db)
		require.Error(t, err)
	})

	t.Run("for user success", func(t *testing.T) {
		var gotArgs []any
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
				gotArgs = args
				return &fakeDashboardRows{dashboards: sample[:1]}, nil
			},
		}
		ds, err := ListDashboardsForUser(context.Background(), db, 5)
		require.NoError(t, err)
		require.Len(t, ds, 1)
		require.Equal(t, []any{5}, gotArgs)
	})

	t.Run("for user empty", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeDashboardRows{}, nil
			},
		}
		ds, err := ListDashboardsForUser(context.Background(), db, 5)
		require.NoError(t, err)
		require.NotNil(t, ds)
		require.Empty(t, ds)
	})

	t.Run("rows error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeDashboardRows{rowsErr: errors.New("rows")}, nil
			},
		}
		_, err := ListDashboardsForUser(context.Background(), db, 5)
		require.Error(t, err)
	})
}

func TestUpdateAndDeleteDashboard(t *testing.T) {
	t.Run("update success", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, nil
			},
		}
		require.NoError(t, UpdateDashboard(context.Background(), db, &model.Dashboard{ID: 1, Name: "n"}))
	})

	t.Run("update error", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("update failed")
			},
		}
		require.Error(t, UpdateDashboard(context.Background(), db, &model.Dashboard{ID: 1, Name: "n"}))
	})

	t.Run("delete success", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, nil
			},
		}
		require.NoError(t, DeleteDashboard(context.Background(), db, 1))
	})

	t.Run("delete error", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("delete failed")
			},
		}
		require.Error(t, DeleteDashboard(context.Background(), db, 1))
	})
}
