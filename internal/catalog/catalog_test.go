package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/crewgen/internal/domain"
)

func TestDefault_CoreTools(t *testing.T) {
	c := Default()

	tests := []struct {
		id        string
		className string
	}{
		{"google_search", "SerperDevTool"},
		{"website_search", "WebsiteSearchTool"},
		{"file_read", "FileReadTool"},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			tool, ok := c.Lookup(tc.id)
			require.True(t, ok)
			assert.Equal(t, tc.className, tool.ClassName)
			assert.NotEmpty(t, tool.Name)
			assert.NotEmpty(t, tool.Description)
			assert.NotEmpty(t, tool.Category)
		})
	}

	assert.Equal(t, []string{"google_search", "website_search", "file_read"}, c.IDs()[:3])
}

func TestCatalog_ClassName(t *testing.T) {
	c := Default()
	assert.Equal(t, "FileReadTool", c.ClassName("file_read"))
	assert.Equal(t, "not_a_real_tool", c.ClassName("not_a_real_tool"))
}

func TestCatalog_Filter(t *testing.T) {
	c := Default()

	known, unknown := c.Filter([]string{"file_read", "bogus", "google_search", "file_read"})
	assert.Equal(t, []string{"file_read", "google_search", "file_read"}, known)
	assert.Equal(t, []string{"bogus"}, unknown)

	known, unknown = c.Filter(nil)
	assert.Empty(t, known)
	assert.NotNil(t, known)
	assert.Empty(t, unknown)
}

func TestNew_IgnoresDuplicates(t *testing.T) {
	c := New(
		domain.ToolDescriptor{ID: "a", ClassName: "First"},
		domain.ToolDescriptor{ID: "a", ClassName: "Second"},
		domain.ToolDescriptor{ID: "b", ClassName: "B"},
	)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "First", c.ClassName("a"))
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].ClassName = "Mutated"

	assert.Equal(t, "SerperDevTool", c.ClassName("google_search"))
}

func TestCatalog_ByCategory(t *testing.T) {
	c := New(
		domain.ToolDescriptor{ID: "a", Category: "x"},
		domain.ToolDescriptor{ID: "b", Category: "y"},
		domain.ToolDescriptor{ID: "c", Category: "x"},
	)

	groups := c.ByCategory()
	require.Len(t, groups, 2)
	assert.Equal(t, "x", groups[0].Category)
	assert.Len(t, groups[0].Tools, 2)
	assert.Equal(t, "c", groups[0].Tools[1].ID)
	assert.Equal(t, "y", groups[1].Category)
}
