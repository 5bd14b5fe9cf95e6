package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/internal/models"
)

func TestFallbackReadsComeBackEmpty(t *testing.T) {
	ctx := context.Background()
	f := NewFallback()

	projects, err := f.ListProjects(ctx, ProjectFilter{})
	require.NoError(t, err)
	assert.Empty(t, projects)

	users, err := f.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = f.GetProject(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.GetUserByEmail(ctx, "a@b.c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackWritesFailExplicitly(t *testing.T) {
	ctx := context.Background()
	f := NewFallback()

	_, err := f.CreateProject(ctx, &models.Project{Name: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = f.UpdateTimeEntry(ctx, "t1", Patch{"hours": 1.0})
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = f.DeleteUser(ctx, "u1")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = f.UpsertUserByEmail(ctx, "a@b.c", "A", "B", models.RoleEmployee)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFallbackHealthCheckReportsUnavailable(t *testing.T) {
	assert.ErrorIs(t, NewFallback().HealthCheck(context.Background()), ErrUnavailable)
}

func TestFallbackAggregatesAreZero(t *testing.T) {
	ctx := context.Background()
	f := NewFallback()
	stats, err := f.DashboardStats(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalHours)
	items, err := f.RecentActivity(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}
