package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"timetrack/backend/services/timetracker-service/internal/config"
	"timetrack/backend/services/timetracker-service/internal/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "timetracker.db")
	return cfg
}

func TestNewMigratesAndKeepsData(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	application, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	res, err := application.Service().CreateProject(ctx, service.CreateProjectInput{Name: "Website", Type: "client", HourlyRate: "10"})
	require.NoError(t, err)
	require.True(t, res.OK())
	application.Close()

	application, err = New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer application.Close()
	projects, err := application.Service().ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
}

func TestNewResetOnStartDropsData(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	application, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	_, err = application.Service().CreateProject(ctx, service.CreateProjectInput{Name: "Website", Type: "client"})
	require.NoError(t, err)
	application.Close()

	cfg.Database.ResetOnStart = true
	application, err = New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer application.Close()
	projects, err := application.Service().ListProjects(ctx)
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestOpenStoreUnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "mysql"
	_, err := OpenStore(context.Background(), cfg)
	require.ErrorContains(t, err, "unsupported database driver")
}
