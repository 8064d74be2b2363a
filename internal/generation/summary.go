package generation

import (
	"fmt"
	"strings"

	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/domain"
)

// Summary describes team as a short spoken-style message.
func Summary(team *domain.TeamConfiguration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I've created a team of %d specialists for you:\n\n", len(team.Agents))
	for i, agent := range team.Agents {
		fmt.Fprintf(&b, "%d. **%s** - %s...\n", i+1, agent.Role, truncate(agent.Goal, constants.SummaryGoalExcerpt))
	}

	workflow := team.WorkflowType
	if workflow == "" {
		workflow = constants.WorkflowSequential
	}
	fmt.Fprintf(&b, "\nI've also selected %d perfect tools and set up a %s workflow. ", len(team.SelectedTools), workflow)
	b.WriteString("Would you like me to generate your configuration file?")
	return b.String()
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
