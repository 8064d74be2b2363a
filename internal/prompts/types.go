package prompts

import "github.com/mrz1836/crewgen/internal/domain"

// PromptID identifies a specific prompt template.
type PromptID string

// Prompt identifiers for all language-model prompts in crewgen.
const (
	// Full-team generation
	TeamSystem   PromptID = "team/system"
	TeamGenerate PromptID = "team/generate"

	// Single-persona generation
	PersonaSystem   PromptID = "persona/system"
	PersonaGenerate PromptID = "persona/generate"

	// Conversational replies
	ConversationSystem PromptID = "conversation/system"
)

// TeamGenerateData contains input data for full-team generation.
type TeamGenerateData struct {
	// MissionName is the short mission title.
	MissionName string
	// Objective is what the team should achieve.
	Objective string
	// Description is optional extra context.
	Description string
	// Tools is every catalog entry the model may recommend.
	Tools []domain.ToolDescriptor
}

// PersonaData contains input data for single-persona generation.
type PersonaData struct {
	Role            string
	TaskDescription string
}

// ConversationData contains input data for the conversational system prompt.
type ConversationData struct {
	// State is the current conversation phase.
	State string
	// Context is a short summary of recent conversation entries.
	Context string
}
