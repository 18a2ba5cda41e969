package server

import (
	"sync"

	"ormd/config"
	"ormd/connections"
	"ormd/diagram"
)

// session is one hosted design with its own router. Routers are not
// reentrant, so every access to the design or router holds mu.
type session struct {
	mu     sync.Mutex
	design *diagram.Design
	router *connections.DesignRouter
	opts   connections.RouteOptions
}

func newSession(d *diagram.Design, cfg config.Config) *session {
	return &session{
		design: d,
		router: cfg.NewDesignRouter(),
		opts:   cfg.RouteOptions(),
	}
}

// sessionMap is a concurrent map of sessions keyed by design ID.
type sessionMap struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionMap() *sessionMap {
	return &sessionMap{sessions: map[string]*session{}}
}

func (m *sessionMap) Get(id string) *session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Add stores s unless a session with the same ID exists.
func (m *sessionMap) Add(id string, s *session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; ok {
		return false
	}
	m.sessions[id] = s
	return true
}

func (m *sessionMap) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
