package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tempo/internal/authn"
	"tempo/internal/config"
	"tempo/internal/models"
	"tempo/internal/session"
	"tempo/internal/store"
)

// stubProvider authenticates from the session cookie exactly like the real
// providers, without an identity provider behind it.
type stubProvider struct {
	mgr *session.Manager
	lg  *zap.SugaredLogger
}

func (p *stubProvider) Middleware() func(http.Handler) http.Handler {
	return authn.RequireSession(p.mgr, p.lg)
}
func (p *stubProvider) LoginHandler() http.HandlerFunc    { return notImplemented }
func (p *stubProvider) CallbackHandler() http.HandlerFunc { return notImplemented }
func (p *stubProvider) MetadataHandler() http.HandlerFunc { return notImplemented }
func (p *stubProvider) LogoutHandler() http.HandlerFunc   { return notImplemented }

func notImplemented(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

type env struct {
	t       *testing.T
	st      store.Store
	mgr     *session.Manager
	handler http.Handler
}

func newEnv(t *testing.T, st store.Store, mode string) *env {
	t.Helper()
	lg := zap.NewNop().Sugar()
	mgr := session.NewManager(session.NewMemory(), time.Hour, false)
	cfg := &config.Config{Mode: mode}
	return &env{
		t:       t,
		st:      st,
		mgr:     mgr,
		handler: NewRouter(cfg, st, &stubProvider{mgr: mgr, lg: lg}, lg),
	}
}

func newSQLiteStore(t *testing.T) *store.Relational {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	st, err := store.NewRelational(db, zap.NewNop().Sugar())
	require.NoError(t, err)
	return st
}

func (e *env) createUser(role string) *models.User {
	e.t.Helper()
	u, err := e.st.CreateUser(context.Background(), &models.User{
		Email: uuid.NewString() + "@tempo.test", FirstName: "Test", Role: role, IsActive: true,
	})
	require.NoError(e.t, err)
	return u
}

func (e *env) login(u *models.User) *http.Cookie {
	e.t.Helper()
	rec := httptest.NewRecorder()
	_, err := e.mgr.Write(context.Background(), rec, "", &session.Data{
		UserID: u.ID, Email: u.Email, IsAuthenticated: true,
	})
	require.NoError(e.t, err)
	cookies := rec.Result().Cookies()
	require.Len(e.t, cookies, 1)
	return cookies[0]
}

func (e *env) do(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		r.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, r)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestAPIRequiresSession(t *testing.T) {
	e := newEnv(t, store.NewFallback(), config.ModeDevelopment)
	rec := e.do(http.MethodGet, "/api/projects", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// expired cookie values behave the same as no cookie
	rec = e.do(http.MethodGet, "/api/projects", nil, &http.Cookie{Name: session.CookieName, Value: session.NewID()})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// roleStore pins the caller's role while every write still hits the fallback.
// A 403 therefore proves the gate fired before the handler touched storage.
type roleStore struct {
	store.Store
	user *models.User
}

func (s roleStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.user, nil
}

func TestRoleGatesFireBeforeAnyWrite(t *testing.T) {
	type route struct {
		method, path string
		blocked      []string
	}
	projectBlocked := []string{models.RoleEmployee, models.RoleViewer}
	orgBlocked := []string{models.RoleProjectManager, models.RoleEmployee, models.RoleViewer}
	adminBlocked := []string{models.RoleManager, models.RoleProjectManager, models.RoleEmployee, models.RoleViewer}

	routes := []route{
		{http.MethodPost, "/api/projects", projectBlocked},
		{http.MethodPatch, "/api/projects/p1", projectBlocked},
		{http.MethodDelete, "/api/projects/p1", projectBlocked},
		{http.MethodPost, "/api/projects/p1/employees", projectBlocked},
		{http.MethodDelete, "/api/projects/p1/employees/e1", projectBlocked},
		{http.MethodPost, "/api/tasks", projectBlocked},
		{http.MethodPatch, "/api/tasks/t1", projectBlocked},
		{http.MethodDelete, "/api/tasks/t1", projectBlocked},
		{http.MethodPost, "/api/time-entries", []string{models.RoleViewer}},
		{http.MethodPatch, "/api/time-entries/te1", []string{models.RoleViewer}},
		{http.MethodDelete, "/api/time-entries/te1", []string{models.RoleViewer}},
		{http.MethodPost, "/api/employees", orgBlocked},
		{http.MethodPatch, "/api/employees/e1", orgBlocked},
		{http.MethodDelete, "/api/employees/e1", orgBlocked},
		{http.MethodPost, "/api/departments", orgBlocked},
		{http.MethodPatch, "/api/departments/d1", orgBlocked},
		{http.MethodDelete, "/api/departments/d1", orgBlocked},
		{http.MethodPost, "/api/organizations", orgBlocked},
		{http.MethodPatch, "/api/organizations/o1", orgBlocked},
		{http.MethodDelete, "/api/organizations/o1", orgBlocked},
		{http.MethodGet, "/api/admin/users", adminBlocked},
		{http.MethodPost, "/api/admin/users", adminBlocked},
		{http.MethodPatch, "/api/admin/users/u1", adminBlocked},
		{http.MethodDelete, "/api/admin/users/u1", adminBlocked},
	}

	roles := []string{
		models.RoleAdmin, models.RoleManager, models.RoleProjectManager,
		models.RoleEmployee, models.RoleViewer,
	}
	for _, role := range roles {
		u := &models.User{ID: "u-" + role, Email: role + "@tempo.test", Role: role, IsActive: true}
		e := newEnv(t, roleStore{Store: store.NewFallback(), user: u}, config.ModeDevelopment)
		cookie := e.login(u)
		for _, rt := range routes {
			for _, b := range rt.blocked {
				if b != role {
					continue
				}
				rec := e.do(rt.method, rt.path, map[string]any{}, cookie)
				assert.Equalf(t, http.StatusForbidden, rec.Code, "%s %s as %s", rt.method, rt.path, role)
			}
		}
	}
}

func TestInactiveUserIsForbidden(t *testing.T) {
	u := &models.User{ID: "u1", Email: "gone@tempo.test", Role: models.RoleAdmin, IsActive: false}
	e := newEnv(t, roleStore{Store: store.NewFallback(), user: u}, config.ModeDevelopment)
	rec := e.do(http.MethodPost, "/api/projects", map[string]any{"name": "x"}, e.login(u))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// An allowed role must reach the handler: the fallback write then fails with
// "storage unavailable", which proves the gate passed rather than short-circuited.
func TestAllowedRolePassesGate(t *testing.T) {
	u := &models.User{ID: "u1", Email: "e@tempo.test", Role: models.RoleEmployee, IsActive: true}
	e := newEnv(t, roleStore{Store: store.NewFallback(), user: u}, config.ModeDevelopment)
	rec := e.do(http.MethodPost, "/api/time-entries", map[string]any{"date": "2024-05-01", "hours": 2}, e.login(u))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "storage unavailable", body["error"])
}

func TestProjectLifecycle(t *testing.T) {
	e := newEnv(t, newSQLiteStore(t), config.ModeDevelopment)
	pm := e.createUser(models.RoleProjectManager)
	viewer := e.createUser(models.RoleViewer)
	pmCookie, viewerCookie := e.login(pm), e.login(viewer)

	rec := e.do(http.MethodPost, "/api/projects", map[string]any{
		"name": "Audit", "startDate": "2024-01-01", "endDate": "2024-06-30",
	}, pmCookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Project
	decodeBody(t, rec, &created)
	assert.Equal(t, "Audit", created.Name)
	assert.Equal(t, models.ProjectActive, created.Status)
	assert.Equal(t, pm.ID, created.UserID)

	rec = e.do(http.MethodGet, "/api/projects/"+created.ID, nil, viewerCookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodDelete, "/api/projects/"+created.ID, nil, viewerCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(http.MethodDelete, "/api/projects/"+created.ID, nil, pmCookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do(http.MethodGet, "/api/projects/"+created.ID, nil, pmCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectCreateValidationSurfacesFields(t *testing.T) {
	e := newEnv(t, newSQLiteStore(t), config.ModeDevelopment)
	pm := e.createUser(models.RoleProjectManager)
	rec := e.do(http.MethodPost, "/api/projects", map[string]any{
		"name": "Backwards", "startDate": "2024-06-30", "endDate": "2024-01-01",
	}, e.login(pm))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Fields, "endDate")
}

func TestTimeEntryOwnershipAndApproval(t *testing.T) {
	e := newEnv(t, newSQLiteStore(t), config.ModeDevelopment)
	owner := e.createUser(models.RoleEmployee)
	other := e.createUser(models.RoleEmployee)
	manager := e.createUser(models.RoleManager)
	ownerCookie, otherCookie, managerCookie := e.login(owner), e.login(other), e.login(manager)

	rec := e.do(http.MethodPost, "/api/time-entries", map[string]any{
		"date": "2024-05-01", "hours": 6, "description": "build",
	}, ownerCookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry models.TimeEntry
	decodeBody(t, rec, &entry)
	assert.Equal(t, owner.ID, entry.UserID)
	assert.Equal(t, models.EntryDraft, entry.Status)

	// entries of other users are invisible below manager
	rec = e.do(http.MethodGet, "/api/time-entries/"+entry.ID, nil, otherCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = e.do(http.MethodPatch, "/api/time-entries/"+entry.ID, map[string]any{"hours": 1}, otherCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(http.MethodPost, "/api/time-entries", map[string]any{
		"userId": owner.ID, "date": "2024-05-01", "hours": 1,
	}, otherCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(http.MethodPatch, "/api/time-entries/"+entry.ID, map[string]any{"isApproved": true}, ownerCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = e.do(http.MethodPatch, "/api/time-entries/"+entry.ID, map[string]any{"status": models.EntryApproved}, ownerCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(http.MethodPatch, "/api/time-entries/"+entry.ID, map[string]any{
		"status": models.EntryApproved, "isApproved": true,
	}, managerCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	// approved entries are locked for their owner
	rec = e.do(http.MethodPatch, "/api/time-entries/"+entry.ID, map[string]any{"hours": 8}, ownerCookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = e.do(http.MethodDelete, "/api/time-entries/"+entry.ID, nil, ownerCookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// but not for a manager
	rec = e.do(http.MethodPatch, "/api/time-entries/"+entry.ID, map[string]any{"hours": 7}, managerCookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTimeEntryListScopedToCaller(t *testing.T) {
	e := newEnv(t, newSQLiteStore(t), config.ModeDevelopment)
	a := e.createUser(models.RoleEmployee)
	b := e.createUser(models.RoleEmployee)
	manager := e.createUser(models.RoleManager)

	for _, u := range []*models.User{a, b} {
		rec := e.do(http.MethodPost, "/api/time-entries", map[string]any{
			"date": "2024-05-01", "hours": 2,
		}, e.login(u))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := e.do(http.MethodGet, "/api/time-entries", nil, e.login(a))
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []models.TimeEntry
	decodeBody(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, a.ID, entries[0].UserID)

	rec = e.do(http.MethodGet, "/api/time-entries", nil, e.login(manager))
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &entries)
	assert.Len(t, entries, 2)
}

func TestAdminUserManagement(t *testing.T) {
	e := newEnv(t, newSQLiteStore(t), config.ModeDevelopment)
	admin := e.createUser(models.RoleAdmin)
	peer := e.createUser(models.RoleEmployee)
	cookie := e.login(admin)

	rec := e.do(http.MethodPatch, "/api/admin/users/"+admin.ID, map[string]any{"role": models.RoleEmployee}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, rec, &body)
	assert.Contains(t, body.Fields, "role")

	rec = e.do(http.MethodDelete, "/api/admin/users/"+admin.ID, nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodPatch, "/api/admin/users/"+peer.ID, map[string]any{"role": models.RoleManager}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.User
	decodeBody(t, rec, &updated)
	assert.Equal(t, models.RoleManager, updated.Role)

	rec = e.do(http.MethodDelete, "/api/admin/users/"+peer.ID, nil, cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMeReturnsUserAndPermissions(t *testing.T) {
	e := newEnv(t, newSQLiteStore(t), config.ModeDevelopment)
	u := e.createUser(models.RoleProjectManager)
	rec := e.do(http.MethodGet, "/api/users/me", nil, e.login(u))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		User        models.User `json:"user"`
		Permissions []string    `json:"permissions"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, u.ID, body.User.ID)
	assert.Contains(t, body.Permissions, "projects:write")
	assert.NotContains(t, body.Permissions, "users:manage")
}

// unreachableStore stands in for a relational store whose database went away.
type unreachableStore struct{ store.Store }

func (unreachableStore) HealthCheck(context.Context) error { return store.ErrUnavailable }

func TestHealthByModeAndStore(t *testing.T) {
	var body map[string]string

	e := newEnv(t, store.NewFallback(), config.ModeDevelopment)
	rec := e.do(http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "fallback", body["database"])

	e = newEnv(t, store.NewFallback(), config.ModeOnPrem)
	rec = e.do(http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "fallback", body["database"])

	e = newEnv(t, newSQLiteStore(t), config.ModeDevelopment)
	rec = e.do(http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["database"])

	// a dead relational database is an outage, not the expected fallback state
	e = newEnv(t, unreachableStore{Store: newSQLiteStore(t)}, config.ModeDevelopment)
	rec = e.do(http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, "unavailable", body["database"])

	e = newEnv(t, unreachableStore{Store: newSQLiteStore(t)}, config.ModeOnPrem)
	rec = e.do(http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unavailable", body["database"])
}

func TestLoginPageEchoesErrorReason(t *testing.T) {
	e := newEnv(t, store.NewFallback(), config.ModeDevelopment)
	rec := e.do(http.MethodGet, "/login?error=no_user", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "no_user")

	rec = e.do(http.MethodGet, "/login", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecureHeadersOnEveryResponse(t *testing.T) {
	e := newEnv(t, store.NewFallback(), config.ModeDevelopment)
	rec := e.do(http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
