package constants

// Phase represents the state of a conversation in the generation state machine.
//
//	Greeting → Collecting
//	Collecting → Generating
//	Generating → Reviewing, Collecting (generation failed)
//
// Generating is entered at most once per conversation that produced a team.
type Phase string

const (
	// PhaseGreeting is the initial phase of a new conversation.
	PhaseGreeting Phase = "greeting"

	// PhaseCollecting indicates the conversation is gathering requirements.
	PhaseCollecting Phase = "collecting"

	// PhaseGenerating indicates a team is being generated for this turn.
	PhaseGenerating Phase = "generating"

	// PhaseReviewing indicates a team exists and further turns are conversational.
	PhaseReviewing Phase = "reviewing"
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	return string(p)
}

// WorkflowType is the execution topology of a generated team.
type WorkflowType string

const (
	// WorkflowSequential runs tasks one after another.
	WorkflowSequential WorkflowType = "sequential"

	// WorkflowHierarchical delegates tasks through a manager agent.
	WorkflowHierarchical WorkflowType = "hierarchical"
)

// String returns the string representation of the WorkflowType.
func (w WorkflowType) String() string {
	return string(w)
}

// Valid reports whether w is one of the permitted workflow literals.
func (w WorkflowType) Valid() bool {
	return w == WorkflowSequential || w == WorkflowHierarchical
}

// Role identifies the speaker of a conversation entry.
type Role string

const (
	// RoleUser marks an utterance from the user.
	RoleUser Role = "user"

	// RoleAssistant marks a reply produced by crewgen.
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}
