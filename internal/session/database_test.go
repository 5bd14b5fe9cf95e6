package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tempo/internal/models"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SessionRecord{}))
	return NewDatabase(db, zap.NewNop().Sugar())
}

func TestDatabaseSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestDatabase(t)
	sid := NewID()
	now := time.Now().Truncate(time.Second)
	require.NoError(t, s.Set(ctx, sid, &Data{UserID: "u1", Email: "a@b.c", IsAuthenticated: true, AuthenticatedAt: &now}, time.Minute))

	got, err := s.Get(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "a@b.c", got.Email)
	assert.True(t, got.IsAuthenticated)
}

func TestDatabaseSetUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestDatabase(t)
	sid := NewID()
	require.NoError(t, s.Set(ctx, sid, &Data{UserID: "u1"}, time.Minute))
	require.NoError(t, s.Set(ctx, sid, &Data{UserID: "u2"}, time.Minute))

	got, err := s.Get(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u2", got.UserID)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDatabaseExpiredReadsAsNoSession(t *testing.T) {
	ctx := context.Background()
	s := newTestDatabase(t)
	sid := NewID()
	require.NoError(t, s.Set(ctx, sid, &Data{UserID: "u1"}, -time.Second))

	got, err := s.Get(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDatabaseDeleteExpiredIsBounded(t *testing.T) {
	ctx := context.Background()
	s := newTestDatabase(t)
	for i := 0; i < 7; i++ {
		require.NoError(t, s.Set(ctx, NewID(), &Data{}, -time.Minute))
	}
	require.NoError(t, s.Set(ctx, NewID(), &Data{}, time.Hour))

	n, err := s.DeleteExpired(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = s.DeleteExpired(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	live, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, live)
}

func TestCleanerSweepsInBatches(t *testing.T) {
	ctx := context.Background()
	s := newTestDatabase(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Set(ctx, NewID(), &Data{}, -time.Minute))
	}
	c := NewCleaner(s, time.Hour, zap.NewNop().Sugar())
	c.batchSize = 2
	c.batchPause = time.Millisecond
	c.sweep(ctx)

	n, err := s.DeleteExpired(ctx, 100)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDatabaseTouchExtendsExpiry(t *testing.T) {
	ctx := context.Background()
	s := newTestDatabase(t)
	sid := NewID()
	require.NoError(t, s.Set(ctx, sid, &Data{UserID: "u1"}, 50*time.Millisecond))
	require.NoError(t, s.Touch(ctx, sid, time.Hour))
	time.Sleep(60 * time.Millisecond)

	got, err := s.Get(ctx, sid)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
