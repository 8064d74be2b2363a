package conversation

import (
	"sync"
	"time"

	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/domain"
)

// Session is one conversation: its history, phase, and at most one team.
//
// Turns on a session are serialized by Engine.ProcessTurn. Accessors are
// safe to call while a turn is in progress.
type Session struct {
	id        string
	createdAt time.Time

	// turn serializes ProcessTurn calls for this session.
	turn sync.Mutex

	mu          sync.RWMutex
	phase       constants.Phase
	history     []domain.Turn
	team        *domain.TeamConfiguration
	transitions []PhaseTransition
	updatedAt   time.Time
}

// NewSession creates a session in the greeting phase.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		id:        id,
		createdAt: now,
		updatedAt: now,
		phase:     constants.PhaseGreeting,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Phase returns the current phase.
func (s *Session) Phase() constants.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// History returns a copy of the conversation history.
func (s *Session) History() []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Team returns the generated team, or nil if none exists yet.
func (s *Session) Team() *domain.TeamConfiguration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.team
}

// Transitions returns a copy of the phase audit trail.
func (s *Session) Transitions() []PhaseTransition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PhaseTransition, len(s.transitions))
	copy(out, s.transitions)
	return out
}

// Snapshot is a point-in-time copy of a session for display and JSON output.
type Snapshot struct {
	ID          string                    `json:"id"`
	Phase       constants.Phase           `json:"phase"`
	History     []domain.Turn             `json:"history"`
	Team        *domain.TeamConfiguration `json:"team,omitempty"`
	Transitions []PhaseTransition         `json:"transitions"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		ID:          s.id,
		Phase:       s.phase,
		History:     make([]domain.Turn, len(s.history)),
		Team:        s.team,
		Transitions: make([]PhaseTransition, len(s.transitions)),
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
	}
	copy(snap.History, s.history)
	copy(snap.Transitions, s.transitions)
	return snap
}

// appendTurn adds one history entry.
func (s *Session) appendTurn(role domain.Role, text string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, domain.Turn{Role: role, Text: text, Timestamp: now})
	s.updatedAt = now
}

// setTeam records the generated team. The team is never replaced.
func (s *Session) setTeam(team *domain.TeamConfiguration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.team == nil {
		s.team = team
	}
}
