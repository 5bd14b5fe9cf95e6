package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	sid := NewID()
	require.NoError(t, m.Set(ctx, sid, &Data{UserID: "u1", IsAuthenticated: true}, time.Minute))

	got, err := m.Get(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.IsAuthenticated)
}

func TestMemoryMissingIsNoSession(t *testing.T) {
	got, err := NewMemory().Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryExpiredReadsAsNoSession(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	sid := NewID()
	require.NoError(t, m.Set(ctx, sid, &Data{UserID: "u1"}, -time.Second))

	got, err := m.Get(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := m.DeleteExpired(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryTouchExtendsOnlyLiveSessions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	live, dead := NewID(), NewID()
	require.NoError(t, m.Set(ctx, live, &Data{}, 50*time.Millisecond))
	require.NoError(t, m.Set(ctx, dead, &Data{}, -time.Second))

	require.NoError(t, m.Touch(ctx, live, time.Hour))
	require.NoError(t, m.Touch(ctx, dead, time.Hour))

	got, _ := m.Get(ctx, live)
	assert.NotNil(t, got)
	got, _ = m.Get(ctx, dead)
	assert.Nil(t, got)
}

func TestMemoryLenCountsLive(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, NewID(), &Data{}, time.Minute))
	require.NoError(t, m.Set(ctx, NewID(), &Data{}, -time.Minute))
	n, err := m.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryDestroyAndClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	sid := NewID()
	require.NoError(t, m.Set(ctx, sid, &Data{}, time.Minute))
	require.NoError(t, m.Destroy(ctx, sid))
	got, _ := m.Get(ctx, sid)
	assert.Nil(t, got)

	require.NoError(t, m.Set(ctx, NewID(), &Data{}, time.Minute))
	require.NoError(t, m.Clear(ctx))
	n, _ := m.Len(ctx)
	assert.Zero(t, n)
}

func TestNewIDIsUnique(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
