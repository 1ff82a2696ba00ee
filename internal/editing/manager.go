package editing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"curvesandbox/internal/shared/types"
)

// Manager is an in-memory session registry for local and staging usage.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	seq      atomic.Uint64
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *Manager) nextID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, m.now().UnixNano(), m.seq.Add(1))
}

// Create registers a new session with default settings.
func (m *Manager) Create() *Session {
	s := NewSession(m.nextID("s"))
	s.touch(m.now())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.id] = s
	return s
}

// Get returns the session and marks it as seen.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Touch marks the session as seen.
func (m *Manager) Touch(id string) bool {
	_, err := m.Get(id)
	return err == nil
}

// Remove drops a session. An active run is aborted.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	if run, active := s.ActiveRun(); active {
		run.Abort()
	}
	return true
}

// List returns summaries ordered by session id.
func (m *Manager) List() []types.SessionSummary {
	m.mu.RLock()
	out := make([]types.SessionSummary, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Summary())
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// Len returns the number of sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run periodically removes sessions idle for longer than idle.
func (m *Manager) Run(ctx context.Context, cadence, idle time.Duration) {
	if cadence <= 0 {
		cadence = time.Second
	}
	if idle <= 0 {
		idle = 15 * time.Minute
	}

	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reap(idle)
		}
	}
}

func (m *Manager) reap(idle time.Duration) int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.idleSince(now) >= idle {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
