package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mrz1836/crewgen/internal/catalog"
	"github.com/mrz1836/crewgen/internal/domain"
)

// TeamMarkdown describes team as a markdown document: the mission, then the
// tasks in order, each followed by the agents assigned to it.
func TeamMarkdown(team *domain.TeamConfiguration, cat *catalog.Catalog) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", team.Mission.Name)
	fmt.Fprintf(&b, "**Objective:** %s\n\n", team.Mission.Objective)
	if team.Mission.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", team.Mission.Description)
	}
	workflow := team.WorkflowType
	if workflow == "" {
		workflow = domain.WorkflowSequential
	}
	fmt.Fprintf(&b, "**Workflow:** %s\n\n", workflow)

	tasks := make([]domain.Task, len(team.Tasks))
	copy(tasks, team.Tasks)
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Order < tasks[j].Order })

	b.WriteString("## Tasks\n\n")
	for _, task := range tasks {
		fmt.Fprintf(&b, "%d. **%s**: %s\n", task.Order, task.Title, task.Description)
		for _, agent := range team.Agents {
			if agent.TaskID == task.ID {
				fmt.Fprintf(&b, "   - *%s*: %s\n", agent.Role, agent.Goal)
			}
		}
	}

	var unassigned []domain.Agent
	for _, agent := range team.Agents {
		if agent.TaskID == "" {
			unassigned = append(unassigned, agent)
		}
	}
	if len(unassigned) > 0 {
		b.WriteString("\n## Unassigned agents\n\n")
		for _, agent := range unassigned {
			fmt.Fprintf(&b, "- *%s*: %s\n", agent.Role, agent.Goal)
		}
	}

	if len(team.SelectedTools) > 0 {
		b.WriteString("\n## Tools\n\n")
		for _, id := range team.SelectedTools {
			if tool, ok := cat.Lookup(id); ok {
				fmt.Fprintf(&b, "- %s (`%s`)\n", tool.Name, id)
				continue
			}
			fmt.Fprintf(&b, "- `%s` (unknown)\n", id)
		}
	}
	return b.String()
}

// ToolRows returns catalog rows for a table with headers
// ID, Name, Category and Description.
func ToolRows(cat *catalog.Catalog) (headers []string, rows [][]string) {
	headers = []string{"ID", "Name", "Category", "Description"}
	for _, group := range cat.ByCategory() {
		for _, tool := range group.Tools {
			rows = append(rows, []string{tool.ID, tool.Name, tool.Category, tool.Description})
		}
	}
	return headers, rows
}
