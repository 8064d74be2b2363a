// Package catalog holds the fixed registry of selectable tools.
//
// A Catalog is an immutable value built once at startup and injected into
// the generation and rendering components. It is safe for concurrent use.
package catalog

import (
	"slices"

	"github.com/mrz1836/crewgen/internal/domain"
)

// Tool categories.
const (
	CategorySearch   = "search"
	CategoryFiles    = "files"
	CategoryWeb      = "web"
	CategoryData     = "data"
	CategoryCode     = "code"
	CategoryMedia    = "media"
	CategoryResearch = "research"
)

// Catalog is a read-only, ordered set of tool descriptors.
type Catalog struct {
	tools []domain.ToolDescriptor
	index map[string]int
}

// New builds a catalog from descriptors. Later duplicates of an id are ignored.
func New(tools ...domain.ToolDescriptor) *Catalog {
	c := &Catalog{
		tools: make([]domain.ToolDescriptor, 0, len(tools)),
		index: make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if _, dup := c.index[t.ID]; dup {
			continue
		}
		c.index[t.ID] = len(c.tools)
		c.tools = append(c.tools, t)
	}
	return c
}

// Default returns the built-in tool catalog.
func Default() *Catalog {
	return New(defaultTools()...)
}

func defaultTools() []domain.ToolDescriptor {
	return []domain.ToolDescriptor{
		{ID: "google_search", Name: "Google Search", Description: "Search Google for information", ClassName: "SerperDevTool", Category: CategorySearch},
		{ID: "website_search", Name: "Website Search", Description: "Search specific websites for content", ClassName: "WebsiteSearchTool", Category: CategorySearch},
		{ID: "file_read", Name: "Read a File", Description: "Read and analyze file contents", ClassName: "FileReadTool", Category: CategoryFiles},
		{ID: "directory_read", Name: "Read a Directory", Description: "List and explore the contents of a directory", ClassName: "DirectoryReadTool", Category: CategoryFiles},
		{ID: "file_write", Name: "Write a File", Description: "Write content to files on disk", ClassName: "FileWriterTool", Category: CategoryFiles},
		{ID: "scrape_website", Name: "Scrape Website", Description: "Extract the full text content of a web page", ClassName: "ScrapeWebsiteTool", Category: CategoryWeb},
		{ID: "browserbase", Name: "Headless Browser", Description: "Load and interact with dynamic web pages", ClassName: "BrowserbaseLoadTool", Category: CategoryWeb},
		{ID: "csv_search", Name: "CSV Search", Description: "Search and query data inside CSV files", ClassName: "CSVSearchTool", Category: CategoryData},
		{ID: "json_search", Name: "JSON Search", Description: "Search structured JSON documents", ClassName: "JSONSearchTool", Category: CategoryData},
		{ID: "pdf_search", Name: "PDF Search", Description: "Search the text of PDF documents", ClassName: "PDFSearchTool", Category: CategoryData},
		{ID: "code_interpreter", Name: "Code Interpreter", Description: "Write and run Python code to compute results", ClassName: "CodeInterpreterTool", Category: CategoryCode},
		{ID: "github_search", Name: "GitHub Search", Description: "Search code, issues and pull requests in GitHub repositories", ClassName: "GithubSearchTool", Category: CategoryCode},
		{ID: "dalle", Name: "Image Generation", Description: "Generate images from text descriptions", ClassName: "DallETool", Category: CategoryMedia},
		{ID: "youtube_search", Name: "YouTube Video Search", Description: "Search the transcripts of YouTube videos", ClassName: "YoutubeVideoSearchTool", Category: CategoryMedia},
		{ID: "exa_search", Name: "Exa Search", Description: "Semantic web search for research-grade sources", ClassName: "EXASearchTool", Category: CategoryResearch},
	}
}

// Lookup returns the descriptor for id.
func (c *Catalog) Lookup(id string) (domain.ToolDescriptor, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.ToolDescriptor{}, false
	}
	return c.tools[i], true
}

// Contains reports whether id is a known tool.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// All returns a copy of every descriptor in catalog order.
func (c *Catalog) All() []domain.ToolDescriptor {
	return slices.Clone(c.tools)
}

// IDs returns every tool id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.tools))
	for i, t := range c.tools {
		ids[i] = t.ID
	}
	return ids
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// ClassName maps a tool id to its implementation identifier.
// Unknown ids are returned unchanged.
func (c *Catalog) ClassName(id string) string {
	if t, ok := c.Lookup(id); ok {
		return t.ClassName
	}
	return id
}

// Filter keeps the known ids from ids, preserving their order.
// Unknown ids are dropped and returned separately.
func (c *Catalog) Filter(ids []string) (known, unknown []string) {
	known = make([]string, 0, len(ids))
	for _, id := range ids {
		if c.Contains(id) {
			known = append(known, id)
			continue
		}
		unknown = append(unknown, id)
	}
	return known, unknown
}

// Group is a set of tools sharing a category.
type Group struct {
	Category string                  `json:"category"`
	Tools    []domain.ToolDescriptor `json:"tools"`
}

// ByCategory groups tools by category in order of first appearance.
func (c *Catalog) ByCategory() []Group {
	var groups []Group
	pos := make(map[string]int)
	for _, t := range c.tools {
		i, ok := pos[t.Category]
		if !ok {
			i = len(groups)
			pos[t.Category] = i
			groups = append(groups, Group{Category: t.Category})
		}
		groups[i].Tools = append(groups[i].Tools, t)
	}
	return groups
}
