package domain

import (
	"time"

	"github.com/mrz1836/crewgen/internal/constants"
)

// Re-export conversation and workflow types from constants so consumers
// can import domain types and their enumerations together.
type (
	// Phase represents the state of a conversation.
	Phase = constants.Phase

	// WorkflowType is the execution topology of a team.
	WorkflowType = constants.WorkflowType

	// Role identifies the speaker of a conversation entry.
	Role = constants.Role
)

// Re-exported constants.
const (
	PhaseGreeting   = constants.PhaseGreeting
	PhaseCollecting = constants.PhaseCollecting
	PhaseGenerating = constants.PhaseGenerating
	PhaseReviewing  = constants.PhaseReviewing

	WorkflowSequential   = constants.WorkflowSequential
	WorkflowHierarchical = constants.WorkflowHierarchical

	RoleUser      = constants.RoleUser
	RoleAssistant = constants.RoleAssistant
)

// Turn is one entry in a conversation history.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// UserTexts returns the text of every user entry in history, in order.
func UserTexts(history []Turn) []string {
	texts := make([]string, 0, len(history))
	for _, turn := range history {
		if turn.Role == RoleUser {
			texts = append(texts, turn.Text)
		}
	}
	return texts
}
