package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

// Memory is the default store for development. Nothing survives a restart.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, sid string) (*Data, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[sid]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, nil
	}
	d := e.data
	return &d, nil
}

func (m *Memory) Set(_ context.Context, sid string, data *Data, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sid] = memoryEntry{data: *data, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *Memory) Destroy(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

func (m *Memory) Touch(_ context.Context, sid string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[sid]; ok && time.Now().Before(e.expiresAt) {
		e.expiresAt = time.Now().Add(ttl)
		m.sessions[sid] = e
	}
	return nil
}

func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	now := time.Now()
	for _, e := range m.sessions {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]memoryEntry)
	return nil
}

func (m *Memory) DeleteExpired(_ context.Context, limit int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	now := time.Now()
	for sid, e := range m.sessions {
		if now.After(e.expiresAt) {
			delete(m.sessions, sid)
			n++
			if limit > 0 && n >= int64(limit) {
				break
			}
		}
	}
	return n, nil
}
