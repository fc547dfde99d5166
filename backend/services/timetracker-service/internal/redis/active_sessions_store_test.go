package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	libredis "timetrack/backend/libs/redis"
)

// newTestStore connects to TIMETRACKER_TEST_REDIS_ADDR, skipping when unset.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("TIMETRACKER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TIMETRACKER_TEST_REDIS_ADDR not set")
	}
	client, err := libredis.NewRedisClient(context.Background(), libredis.Options{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	store := NewStore(client, time.Minute)
	store.prefix = "timetracker:test:" + t.Name()
	return store
}

func TestStoreSaveGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	_, err := store.Get(ctx, 1)
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Save(ctx, ActiveSession{SessionID: 9, ProjectID: 1, ProjectName: "Website", StartTime: start}))

	cached, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(9), cached.SessionID)
	require.Equal(t, "Website", cached.ProjectName)
	require.True(t, cached.StartTime.Equal(start))

	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Get(ctx, 1)
	require.ErrorIs(t, err, ErrMiss)
}

func TestStoreKeyIsPerProject(t *testing.T) {
	store := NewStore(nil, time.Minute)
	require.Equal(t, "timetracker:active:7", store.key(7))
	require.NotEqual(t, store.key(7), store.key(8))
}
