package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	libdb "timetrack/backend/libs/db"
	"timetrack/backend/services/timetracker-service/internal/models"
	"timetrack/backend/services/timetracker-service/internal/repository"
)

const testDSNEnv = "TIMETRACKER_TEST_POSTGRES_DSN"

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDSNEnv)
	}

	ctx := context.Background()
	pool, err := libdb.NewPostgresPool(ctx, dsn)
	require.NoError(t, err)

	store := NewStore(pool)
	require.NoError(t, store.Reset(ctx))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_ProjectRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	proj := &models.Project{Name: "Website", Type: "client", HourlyRate: 450}
	require.NoError(t, store.CreateProject(ctx, proj))
	require.NotZero(t, proj.ID)

	loaded, err := store.GetProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, "Website", loaded.Name)
	require.Equal(t, 450.0, loaded.HourlyRate)

	_, err = store.GetProject(ctx, proj.ID+1000)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_OneOpenSessionPerProject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	proj := &models.Project{Name: "Website", Type: "client"}
	require.NoError(t, store.CreateProject(ctx, proj))

	start := time.Now()
	err := store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.InsertSession(ctx, &models.Session{ProjectID: proj.ID, StartTime: start})
	})
	require.NoError(t, err)

	err = store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.InsertSession(ctx, &models.Session{ProjectID: proj.ID, StartTime: start})
	})
	require.ErrorIs(t, err, repository.ErrOpenSessionExists)
}

func TestStore_DeleteProjectCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	proj := &models.Project{Name: "Website", Type: "client"}
	require.NoError(t, store.CreateProject(ctx, proj))
	require.NoError(t, store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.InsertSession(ctx, &models.Session{ProjectID: proj.ID, StartTime: time.Now()})
	}))

	require.NoError(t, store.DeleteProject(ctx, proj.ID))

	var orphans int
	require.NoError(t, store.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessions WHERE project_id = $1`, proj.ID).Scan(&orphans))
	require.Zero(t, orphans)
}
