// Package conversation implements the dialogue state machine that collects
// requirements, decides when to generate a team, and produces replies.
//
// This file implements the phase state machine, which enforces valid phase
// transitions and keeps an audit trail of phase changes.
//
// Import rules:
//   - CAN import: internal/clock, internal/config, internal/constants,
//     internal/domain, internal/errors, internal/generation, internal/intent,
//     internal/llm, internal/prompts, std lib
//   - MUST NOT import: internal/api, internal/voice, internal/cli
package conversation

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/mrz1836/crewgen/internal/constants"
	crewerrors "github.com/mrz1836/crewgen/internal/errors"
)

// ValidTransitions defines all allowed phase transitions.
// Format: from_phase -> []to_phases
//
// The state machine follows this flow:
//
//	Greeting → Collecting
//	Collecting → Generating
//	Generating → Reviewing, Collecting (generation failed)
//
//nolint:gochecknoglobals // Exported for testing and read-only lookup table
var ValidTransitions = map[constants.Phase][]constants.Phase{
	constants.PhaseGreeting:   {constants.PhaseCollecting},
	constants.PhaseCollecting: {constants.PhaseGenerating},
	constants.PhaseGenerating: {constants.PhaseReviewing, constants.PhaseCollecting},
}

// PhaseTransition records one phase change.
type PhaseTransition struct {
	From      constants.Phase `json:"from"`
	To        constants.Phase `json:"to"`
	Timestamp time.Time       `json:"timestamp"`
	Reason    string          `json:"reason,omitempty"`
}

// IsValidTransition checks if a transition from one phase to another is allowed.
// Returns false for transitions out of the terminal phase or to the same phase.
func IsValidTransition(from, to constants.Phase) bool {
	if from == to {
		return false
	}
	return slices.Contains(ValidTransitions[from], to)
}

// IsTerminalPhase returns true for phases with no outgoing transitions.
func IsTerminalPhase(p constants.Phase) bool {
	_, ok := ValidTransitions[p]
	return !ok
}

// Transition validates and applies a phase transition to s.
//
// Returns an error if:
//   - ctx is canceled
//   - s is nil (wrapped ErrInvalidTransition)
//   - s already owns a team and to is Generating (wrapped ErrGenerationAlreadyTriggered)
//   - The transition is invalid (wrapped ErrInvalidTransition)
func Transition(ctx context.Context, s *Session, to constants.Phase, now time.Time, reason string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if s == nil {
		return fmt.Errorf("%w: session is nil", crewerrors.ErrInvalidTransition)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.phase
	if to == constants.PhaseGenerating && s.team != nil {
		return fmt.Errorf("%w: session %s", crewerrors.ErrGenerationAlreadyTriggered, s.id)
	}
	if !IsValidTransition(from, to) {
		return fmt.Errorf("%w: cannot transition from %s to %s",
			crewerrors.ErrInvalidTransition, from, to)
	}

	s.transitions = append(s.transitions, PhaseTransition{
		From:      from,
		To:        to,
		Timestamp: now,
		Reason:    reason,
	})
	s.phase = to
	s.updatedAt = now
	return nil
}
