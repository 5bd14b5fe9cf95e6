package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerWriteThenRead(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemory(), time.Hour, false)

	rec := httptest.NewRecorder()
	sid, err := mgr.Write(ctx, rec, "", &Data{UserID: "u1", IsAuthenticated: true})
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, sid, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	gotSID, data, err := mgr.Read(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, sid, gotSID)
	require.NotNil(t, data)
	assert.Equal(t, "u1", data.UserID)
}

// The pre-authentication id must stop resolving once login regenerates it.
func TestManagerRegenerateInvalidatesOldID(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	mgr := NewManager(store, time.Hour, false)

	rec := httptest.NewRecorder()
	oldSID, err := mgr.Write(ctx, rec, "", &Data{SAMLRequestID: "req-1"})
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	newSID, err := mgr.Regenerate(ctx, rec, oldSID, &Data{UserID: "u1", IsAuthenticated: true})
	require.NoError(t, err)
	assert.NotEqual(t, oldSID, newSID)

	gone, err := store.Get(ctx, oldSID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	data, err := store.Get(ctx, newSID)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.True(t, data.IsAuthenticated)
}

func TestManagerReadWithoutCookie(t *testing.T) {
	mgr := NewManager(NewMemory(), time.Hour, false)
	sid, data, err := mgr.Read(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Empty(t, sid)
	assert.Nil(t, data)
}

func TestManagerDestroyClearsCookie(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemory(), time.Hour, false)
	rec := httptest.NewRecorder()
	sid, err := mgr.Write(ctx, rec, "", &Data{UserID: "u1"})
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	require.NoError(t, mgr.Destroy(ctx, rec, sid))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
