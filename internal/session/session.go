// Package session holds the browser session for the dashboard: the access and
// refresh tokens issued by the DealLens backend, persisted as two sealed
// cookies. Nothing else is persisted; the dashboard is otherwise stateless.
package session

import "sync"

// Session is the explicit session-context object handed to the API client.
// Implementations are scoped to one dashboard request; there is no ambient
// global. Concurrent writers are last-writer-wins, matching the cookie model.
type Session interface {
	AccessToken() string
	RefreshToken() string

	// SetTokens replaces both tokens, as issued by login, register or a
	// successful silent refresh.
	SetTokens(access string, refresh string)

	// Clear destroys the session. Subsequent requests carry no credential.
	Clear()
}

// Memory is an in-memory Session used by tests and one-shot tooling.
type Memory struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func NewMemory(access string, refresh string) *Memory {
	return &Memory{access: access, refresh: refresh}
}

func (m *Memory) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *Memory) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *Memory) SetTokens(access string, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	m.refresh = refresh
}

func (m *Memory) Clear() {
	m.SetTokens("", "")
}
