package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSQLiteDB_EnablesForeignKeys(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	var enabled int
	require.NoError(t, sqlDB.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
	require.Equal(t, 1, enabled)
}

func TestNewSQLiteDB_PragmasApplyToEveryConnection(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	sqlDB.SetMaxOpenConns(2)
	first, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, conn := range []*sql.Conn{first, second} {
		var foreignKeys, busyTimeout int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys))
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout))
		require.Equal(t, 1, foreignKeys)
		require.Equal(t, 5000, busyTimeout)
	}
}

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t,
		"tt.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate",
		sqliteDSN("tt.db"))
	require.Equal(t,
		"file:tt.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate",
		sqliteDSN("file:tt.db?mode=rwc"))
}

func TestNewSQLiteDB_EmptyPath(t *testing.T) {
	_, err := NewSQLiteDB(context.Background(), "  ")
	require.Error(t, err)
}

func TestNewPostgresPool_EmptyDSN(t *testing.T) {
	_, err := NewPostgresPool(context.Background(), "")
	require.Error(t, err)
}
