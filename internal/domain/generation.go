package domain

import "strings"

// GenerationRequest is the structured input for full-team generation.
type GenerationRequest struct {
	Name        string `json:"mission_name"`
	Objective   string `json:"mission_objective"`
	Description string `json:"mission_description,omitempty"`
}

// Validate reports whether the request carries a name and an objective.
func (r GenerationRequest) Validate() bool {
	return strings.TrimSpace(r.Name) != "" && strings.TrimSpace(r.Objective) != ""
}

// GeneratedTeam is the validated result of a full-team generation.
type GeneratedTeam struct {
	Mission          Mission      `json:"mission"`
	Tasks            []Task       `json:"tasks"`
	Agents           []Agent      `json:"agents"`
	RecommendedTools []string     `json:"recommended_tools"`
	WorkflowType     WorkflowType `json:"workflow_type"`
	Explanation      string       `json:"explanation,omitempty"`
}

// Team converts the generation result into a TeamConfiguration.
// The returned team has no identifier until it is saved.
func (g *GeneratedTeam) Team() TeamConfiguration {
	tools := make([]string, len(g.RecommendedTools))
	copy(tools, g.RecommendedTools)
	return TeamConfiguration{
		Mission:       g.Mission,
		Tasks:         append([]Task(nil), g.Tasks...),
		Agents:        append([]Agent(nil), g.Agents...),
		SelectedTools: tools,
		WorkflowType:  g.WorkflowType,
	}
}

// PersonaRequest asks for a goal and backstory for a single role.
type PersonaRequest struct {
	Role            string `json:"role"`
	TaskDescription string `json:"task_description"`
}

// Validate reports whether the request names a role.
func (r PersonaRequest) Validate() bool {
	return strings.TrimSpace(r.Role) != ""
}

// Persona is a generated goal and backstory for an agent.
type Persona struct {
	Goal      string `json:"goal"`
	Backstory string `json:"backstory"`
}
