package conversation

import (
	"sort"
	"sync"

	"github.com/mrz1836/crewgen/internal/clock"
	"github.com/mrz1836/crewgen/internal/domain"
	crewerrors "github.com/mrz1836/crewgen/internal/errors"
)

// Manager keeps sessions in process memory, keyed by identifier.
// Sessions do not survive a restart.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	clock    clock.Clock
}

// NewManager creates an empty Manager. A nil clock uses the system clock.
func NewManager(c clock.Clock) *Manager {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Manager{
		sessions: make(map[string]*Session),
		clock:    c,
	}
}

// Create starts a new session with a fresh identifier.
func (m *Manager) Create() *Session {
	s := NewSession(domain.NewID(), m.clock.Now())
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with id.
// Returns a wrapped ErrSessionNotFound when it does not exist.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, crewerrors.Wrapf(crewerrors.ErrSessionNotFound, "session %s", id)
	}
	return s, nil
}

// Delete removes the session with id. Missing ids are ignored.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns the identifiers of all live sessions, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
