package session

import (
	"context"
	"net/http"
	"time"
)

const CookieName = "tempo_sid"

// Manager ties the store to the session cookie and owns the id lifecycle,
// including the regeneration performed at login.
type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, ttl: ttl, secure: secure}
}

func (m *Manager) Store() Store       { return m.store }
func (m *Manager) TTL() time.Duration { return m.ttl }

// Read resolves the request's session. A request without a cookie, or whose
// session is missing or expired, comes back with empty sid and nil data.
func (m *Manager) Read(ctx context.Context, r *http.Request) (string, *Data, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", nil, nil
	}
	data, err := m.store.Get(ctx, c.Value)
	if err != nil {
		return "", nil, err
	}
	if data == nil {
		return "", nil, nil
	}
	return c.Value, data, nil
}

// Write persists data under sid (issuing a fresh id when sid is empty) and
// sets the cookie.
func (m *Manager) Write(ctx context.Context, w http.ResponseWriter, sid string, data *Data) (string, error) {
	if sid == "" {
		sid = NewID()
	}
	if err := m.store.Set(ctx, sid, data, m.ttl); err != nil {
		return "", err
	}
	m.setCookie(w, sid, m.ttl)
	return sid, nil
}

// Regenerate issues a new session id for data and destroys the old row.
// Called at the moment of privilege escalation so a pre-authentication id
// cannot be replayed after login.
func (m *Manager) Regenerate(ctx context.Context, w http.ResponseWriter, oldSID string, data *Data) (string, error) {
	newSID := NewID()
	if err := m.store.Set(ctx, newSID, data, m.ttl); err != nil {
		return "", err
	}
	if oldSID != "" {
		if err := m.store.Destroy(ctx, oldSID); err != nil {
			return "", err
		}
	}
	m.setCookie(w, newSID, m.ttl)
	return newSID, nil
}

func (m *Manager) Touch(ctx context.Context, sid string) error {
	return m.store.Touch(ctx, sid, m.ttl)
}

func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sid string) error {
	if sid != "" {
		if err := m.store.Destroy(ctx, sid); err != nil {
			return err
		}
	}
	m.setCookie(w, "", -time.Hour)
	return nil
}

func (m *Manager) setCookie(w http.ResponseWriter, sid string, ttl time.Duration) {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(ttl / time.Second)
	}
	http.SetCookie(w, c)
}
