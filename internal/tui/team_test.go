package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/crewgen/internal/catalog"
	"github.com/mrz1836/crewgen/internal/domain"
)

func sampleTeam() *domain.TeamConfiguration {
	return &domain.TeamConfiguration{
		ID: "team-1",
		Mission: domain.Mission{
			Name:      "Marketing Campaign",
			Objective: "Grow signups",
		},
		Tasks: []domain.Task{
			{ID: "t2", Title: "Write Copy", Description: "Draft the ads", Order: 2},
			{ID: "t1", Title: "Market Research", Description: "Study the audience", Order: 1},
		},
		Agents: []domain.Agent{
			{ID: "a1", TaskID: "t1", Role: "Researcher", Goal: "Find the audience"},
			{ID: "a2", TaskID: "t2", Role: "Copywriter", Goal: "Write the ads"},
			{ID: "a3", Role: "Reviewer", Goal: "Check quality"},
		},
		SelectedTools: []string{"google_search", "teleport"},
	}
}

func TestTeamMarkdown(t *testing.T) {
	md := TeamMarkdown(sampleTeam(), catalog.Default())

	assert.True(t, strings.HasPrefix(md, "# Marketing Campaign\n"))
	assert.Contains(t, md, "**Objective:** Grow signups")
	assert.Contains(t, md, "**Workflow:** sequential")
	assert.Contains(t, md, "- Google Search (`google_search`)")
	assert.Contains(t, md, "- `teleport` (unknown)")
	assert.Contains(t, md, "## Unassigned agents\n\n- *Reviewer*: Check quality")

	research := strings.Index(md, "1. **Market Research**")
	copywriting := strings.Index(md, "2. **Write Copy**")
	require.NotEqual(t, -1, research)
	require.NotEqual(t, -1, copywriting)
	assert.Less(t, research, copywriting, "tasks are listed by order")
	assert.Contains(t, md, "1. **Market Research**: Study the audience\n   - *Researcher*: Find the audience\n")
}

func TestTeamMarkdown_DoesNotReorderInput(t *testing.T) {
	team := sampleTeam()
	_ = TeamMarkdown(team, catalog.Default())
	assert.Equal(t, "t2", team.Tasks[0].ID)
}

func TestToolRows(t *testing.T) {
	cat := catalog.Default()
	headers, rows := ToolRows(cat)

	assert.Equal(t, []string{"ID", "Name", "Category", "Description"}, headers)
	require.Len(t, rows, cat.Len())
	assert.Equal(t, "google_search", rows[0][0])
}

func TestRenderMarkdown_PlainWithoutColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "# Title\n", RenderMarkdown("# Title\n"))
}
