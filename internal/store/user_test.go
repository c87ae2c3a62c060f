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

// fakeUserRow 支援兩種 Scan 呼叫場景：
// 1) len(dest)==6 → GetUserByID / GetUserByUsername
// 2) len(dest)==2 → CreateUser (id, created_at)
type fakeUserRow struct {
	scanErr error
	user    *model.User
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.user
	switch len(dest) {
	case 6:
		*dest[0].(*int) = u.ID
		*dest[1].(*string) = u.Username
		*dest[2].(**string) = u.PasswordHash
		*dest[3].(*model.Role) = u.Role
		*dest[4].(*time.Time) = u.CreatedAt
		*dest[5].(**time.Time) = u.LastLoginAt
	case 2:
		*dest[0].(*int) = u.ID
		*dest[1].(*time.Time) = u.CreatedAt
	default:
		panic("fakeUserRow.Scan: unexpected dest count")
	}
	return nil
}

func TestUserStore(t *testing.T) {
	now := time.Now().UTC()
	hash := "hash123"
	sample := &model.User{
		ID:           7,
		Username:     "alice",
		PasswordHash: &hash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
	}

	t.Run("GetUserByID success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{user: sample}
			},
		}
		u, err := GetUserByID(context.Background(), db, 7)
		require.NoError(t, err)
		require.Equal(t, "alice", u.Username)
		require.Equal(t, model.RoleAdmin, u.Role)
		require.Equal(t, &hash, u.PasswordHash)
	})

	t.Run("GetUserByID not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: pgx.ErrNoRows}
			},
		}
		u, err := GetUserByID(context.Background(), db, 999)
		require.Error(t, err)
		require.Nil(t, u)
	})

	t.Run("GetUserByUsername success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{user: sample}
			},
		}
		u, err := GetUserByUsername(context.Background(), db, "alice")
		require.NoError(t, err)
		require.Equal(t, 7, u.ID)
	})

	t.Run("GetUserByUsername not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: pgx.ErrNoRows}
			},
		}
		u, err := GetUserByUsername(context.Background(), db, "bob")
		require.Error(t, err)
		require.Nil(t, u)
	})

	t.Run("CreateUser success", func(t *testing.T) {
		pwd := "pwdhash"
		newUser := &model.User{Username: "bob", PasswordHash: &pwd, Role: model.RoleUser}
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				u := *newUser
				u.ID = 42
				u.CreatedAt = now.Add(time.Hour)
				return &fakeUserRow{user: &u}
			},
		}
		created, err := CreateUser(context.Background(), db, newUser)
		require.NoError(t, err)
		require.Equal(t, 42, created.ID)
		require.WithinDuration(t, now.Add(time.Hour), created.CreatedAt, time.Second)
	})

	t.Run("CreateUser error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: errors.New("dup key")}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{})
		require.Error(t, err)
	})

	t.Run("UpdateUserPassword success", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, nil
			},
		}
		require.NoError(t, UpdateUserPassword(context.Background(), db, 7, "newHash"))
	})

	t.Run("UpdateUserPassword error", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("pwd update failed")
			},
		}
		require.Error(t, UpdateUserPassword(context.Background(), db, 7, "newHash"))
	})

	t.Run("RecordLastLogin success", func(t *testing.T) {
		var gotArgs []any
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
				gotArgs = args
				return pgconn.CommandTag{}, nil
			},
		}
		require.NoError(t, RecordLastLogin(context.Background(), db, 7, now))
		require.Equal(t, []any{now, 7}, gotArgs)
	})

	t.Run("RecordLastLogin error", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("stamp failed")
			},
		}
		require.Error(t, RecordLastLogin(context.Background(), db, 7, now))
	})
}
