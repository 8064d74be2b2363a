// Package render serializes a team configuration into the multi-agent
// framework's configuration document.
//
// The output is line-oriented and write-only: it is never parsed back.
// Rendering is pure, so the same team always yields the same bytes.
package render

import (
	"strings"

	"github.com/mrz1836/crewgen/internal/catalog"
	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/domain"
)

const (
	headerSuffix       = " - AI Agent Team Configuration"
	generatorLine      = "# Generated by AI Agent Team Configuration Wizard"
	expectedOutput     = "Complete and accurate results for the task"
	missingDescription = "No description provided"
)

// Renderer turns teams into configuration documents.
type Renderer struct {
	catalog *catalog.Catalog
}

// New returns a Renderer that maps tool ids through c.
func New(c *catalog.Catalog) *Renderer {
	return &Renderer{catalog: c}
}

// Render returns the configuration document for team.
func (r *Renderer) Render(team *domain.TeamConfiguration) string {
	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(team.Mission.Name)
	b.WriteString(headerSuffix)
	b.WriteString("\n")
	b.WriteString(generatorLine)
	b.WriteString("\n\nagents:")

	for _, agent := range team.Agents {
		b.WriteString("\n  - role: ")
		b.WriteString(agent.Role)
		b.WriteString("\n    goal: ")
		b.WriteString(agent.Goal)
		b.WriteString("\n    backstory: ")
		b.WriteString(agent.Backstory)
	}

	b.WriteString("\n\ntasks:")
	for i, task := range team.Tasks {
		b.WriteString("\n  - description: ")
		b.WriteString(task.Description)
		b.WriteString("\n    agent: ")
		b.WriteString(pairedRole(team.Agents, i))
		b.WriteString("\n    expected_output: ")
		b.WriteString(expectedOutput)
	}

	b.WriteString("\n\ntools:")
	for _, id := range team.SelectedTools {
		b.WriteString("\n  - ")
		b.WriteString(r.catalog.ClassName(id))
	}

	b.WriteString("\n\nprocess: ")
	b.WriteString(team.WorkflowType.String())
	b.WriteString("\n\n# Mission: ")
	b.WriteString(team.Mission.Objective)
	b.WriteString("\n# Description: ")
	if team.Mission.Description == "" {
		b.WriteString(missingDescription)
	} else {
		b.WriteString(team.Mission.Description)
	}
	b.WriteString("\n")

	return b.String()
}

// pairedRole returns the role of the agent at position i, falling back to
// the first agent when there are fewer agents than tasks.
func pairedRole(agents []domain.Agent, i int) string {
	switch {
	case i < len(agents):
		return agents[i].Role
	case len(agents) > 0:
		return agents[0].Role
	default:
		return ""
	}
}

// Filename returns the suggested file name for a mission's document.
func Filename(missionName string) string {
	return strings.ToLower(strings.ReplaceAll(missionName, " ", "_")) + constants.ConfigFileSuffix
}
