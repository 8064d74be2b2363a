package prompts

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/mrz1836/crewgen/internal/domain"
)

// TestRenderPersonaGenerate tests the single-persona prompt rendering.
func TestRenderPersonaGenerate(t *testing.T) {
	result, err := Render(PersonaGenerate, PersonaData{
		Role:            "Data Analyst",
		TaskDescription: "Analyze customer data to identify trends and insights",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"Role: Data Analyst",
		"Task: Analyze customer data to identify trends and insights",
		`"goal":`,
		`"backstory":`,
		"Respond with ONLY the JSON, no additional text.",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Render() result missing %q\ngot:\n%s", want, result)
		}
	}
}

// TestRenderTeamGenerate tests the full-team prompt embeds every catalog entry.
func TestRenderTeamGenerate(t *testing.T) {
	tests := []struct {
		name        string
		data        TeamGenerateData
		contains    []string
		notContains []string
	}{
		{
			name: "with description",
			data: TeamGenerateData{
				MissionName: "E-commerce Growth",
				Objective:   "Increase online sales",
				Description: "Boost sales by 30%",
				Tools: []domain.ToolDescriptor{
					{ID: "google_search", Name: "Google Search", Description: "Search Google for information", ClassName: "SerperDevTool", Category: "search"},
					{ID: "file_read", Name: "Read a File", Description: "Read and analyze file contents", ClassName: "FileReadTool", Category: "files"},
				},
			},
			contains: []string{
				"Mission: E-commerce Growth",
				"Objective: Increase online sales",
				"Description: Boost sales by 30%",
				"- google_search: Google Search - Search Google for information (implementation: SerperDevTool, category: search)",
				"- file_read: Read a File",
				`"task_index"`,
				`"recommended_tools"`,
				`"workflow_type"`,
				`"explanation"`,
				"Respond with ONLY the JSON",
			},
		},
		{
			name: "without description",
			data: TeamGenerateData{
				MissionName: "Sales",
				Objective:   "Sell more",
			},
			contains:    []string{"Mission: Sales"},
			notContains: []string{"Description:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Render(TeamGenerate, tt.data)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(result, want) {
					t.Errorf("Render() result missing %q\ngot:\n%s", want, result)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(result, unwanted) {
					t.Errorf("Render() result unexpectedly contains %q", unwanted)
				}
			}
		})
	}
}

// TestRenderConversationSystem tests state and context interpolation.
func TestRenderConversationSystem(t *testing.T) {
	result := MustRender(ConversationSystem, ConversationData{
		State:   "collecting",
		Context: "User: I run an online store...",
	})

	if !strings.Contains(result, "CURRENT STATE: collecting") {
		t.Error("missing state")
	}
	if !strings.Contains(result, "CONVERSATION CONTEXT: User: I run an online store...") {
		t.Error("missing context")
	}
}

// TestRenderNotFound tests error handling for unknown prompts.
func TestRenderNotFound(t *testing.T) {
	_, err := Render("nonexistent/template", nil)
	if err == nil {
		t.Fatal("Render() expected error for non-existent template")
	}
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Render() error = %v, want ErrTemplateNotFound", err)
	}
}

// TestRenderWrongData tests that mismatched data types are rejected.
func TestRenderWrongData(t *testing.T) {
	_, err := Render(PersonaGenerate, map[string]string{"Role": "x"})
	if !errors.Is(err, ErrInvalidData) {
		t.Errorf("Render() error = %v, want ErrInvalidData", err)
	}
}

// TestMustRenderPanic tests that MustRender panics on error.
func TestMustRenderPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustRender() did not panic for non-existent template")
		}
	}()

	MustRender("nonexistent/template", nil)
}

// TestRenderText tests inline template overrides.
func TestRenderText(t *testing.T) {
	got, err := RenderText("override", "state={{.State}} ctx={{lower .Context}}", ConversationData{State: "greeting", Context: "ABC"})
	if err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}
	if got != "state=greeting ctx=abc" {
		t.Errorf("RenderText() = %q", got)
	}

	_, err = RenderText("broken", "{{.State", ConversationData{})
	if !errors.Is(err, ErrTemplateParse) {
		t.Errorf("RenderText() error = %v, want ErrTemplateParse", err)
	}

	_, err = RenderText("missing", "{{.Nope}}", ConversationData{})
	if !errors.Is(err, ErrTemplateExecution) {
		t.Errorf("RenderText() error = %v, want ErrTemplateExecution", err)
	}
}

// TestList tests listing all prompt IDs.
func TestList(t *testing.T) {
	ids := List()
	want := []PromptID{ConversationSystem, PersonaGenerate, PersonaSystem, TeamGenerate, TeamSystem}

	if len(ids) != len(want) {
		t.Fatalf("List() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

// TestGetTemplate tests raw source retrieval.
func TestGetTemplate(t *testing.T) {
	src, err := GetTemplate(PersonaSystem)
	if err != nil {
		t.Fatalf("GetTemplate() error = %v", err)
	}
	if !strings.Contains(src, "expert at creating detailed AI agent personas") {
		t.Errorf("GetTemplate() = %q", src)
	}
	if Exists("nope/nope") {
		t.Error("Exists() returned true for unknown id")
	}
}

// TestConcurrentAccess exercises the registry from many goroutines.
func TestConcurrentAccess(t *testing.T) {
	const goroutines = 10
	const iterations = 50

	done := make(chan bool, goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			for i := 0; i < iterations; i++ {
				if _, err := Render(PersonaGenerate, PersonaData{Role: "r", TaskDescription: "t"}); err != nil {
					t.Errorf("concurrent Render() error = %v", err)
				}
				if !Exists(TeamGenerate) {
					t.Error("concurrent Exists() returned false")
				}
			}
			done <- true
		}()
	}
	for g := 0; g < goroutines; g++ {
		<-done
	}
}

// TestNewRegistry_Partials checks that prompts can include common partials
// and that partials are not registered as prompts themselves.
func TestNewRegistry_Partials(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/common/footer.tmpl": {Data: []byte("-- {{lower .}}")},
		"templates/demo/hello.tmpl":    {Data: []byte(`Hello {{.}} {{template "common/footer" .}}`)},
	}

	reg, err := newRegistry(fsys)
	if err != nil {
		t.Fatalf("newRegistry() error = %v", err)
	}
	if got := reg.ids(); len(got) != 1 || got[0] != "demo/hello" {
		t.Fatalf("ids() = %v", got)
	}

	tmpl, err := reg.get("demo/hello")
	if err != nil {
		t.Fatalf("get() error = %v", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, "WORLD"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if b.String() != "Hello WORLD -- world" {
		t.Errorf("Execute() = %q", b.String())
	}
}

func TestNewRegistry_ParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/demo/broken.tmpl": {Data: []byte("{{.Unclosed")},
	}
	if _, err := newRegistry(fsys); err == nil {
		t.Fatal("newRegistry() expected parse error")
	}
}
