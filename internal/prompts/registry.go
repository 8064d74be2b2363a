package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"text/template"

	"github.com/mrz1836/crewgen/internal/domain"
)

//go:embed templates
var templateFS embed.FS

const (
	templateRoot   = "templates"
	templateSuffix = ".tmpl"
	partialDir     = "common"
)

// registry holds the parsed prompt set. It is immutable once loaded.
type registry struct {
	templates map[PromptID]*template.Template
	sources   map[PromptID]string
}

// loadRegistry parses the embedded templates on first use.
//
//nolint:gochecknoglobals // lazily built, read-only prompt set
var loadRegistry = sync.OnceValues(func() (*registry, error) {
	return newRegistry(templateFS)
})

// funcMap returns the functions available to every prompt.
func funcMap() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"hasContent": func(s string) bool {
			return strings.TrimSpace(s) != ""
		},
		"formatTool": func(t domain.ToolDescriptor) string {
			return fmt.Sprintf("- %s: %s - %s (implementation: %s, category: %s)", t.ID, t.Name, t.Description, t.ClassName, t.Category)
		},
		"lower": strings.ToLower,
	}
}

// newRegistry parses every templates/<group>/<name>.tmpl in fsys as the
// prompt "<group>/<name>". Files under templates/common are partials that
// every prompt can include as {{template "common/<name>" .}}.
func newRegistry(fsys fs.FS) (*registry, error) {
	base := template.New("").Funcs(funcMap())

	partials, err := fs.Glob(fsys, path.Join(templateRoot, partialDir, "*"+templateSuffix))
	if err != nil {
		return nil, err
	}
	for _, p := range partials {
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading partial %s: %w", p, err)
		}
		if _, err := base.New(string(promptIDFromPath(p))).Parse(string(src)); err != nil {
			return nil, fmt.Errorf("parsing partial %s: %w", p, err)
		}
	}

	files, err := fs.Glob(fsys, path.Join(templateRoot, "*", "*"+templateSuffix))
	if err != nil {
		return nil, err
	}

	r := &registry{
		templates: make(map[PromptID]*template.Template, len(files)),
		sources:   make(map[PromptID]string, len(files)),
	}
	for _, p := range files {
		if path.Base(path.Dir(p)) == partialDir {
			continue
		}
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", p, err)
		}

		set, err := base.Clone()
		if err != nil {
			return nil, err
		}
		id := promptIDFromPath(p)
		tmpl, err := set.New(string(id)).Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", p, err)
		}
		r.templates[id] = tmpl
		r.sources[id] = string(src)
	}
	return r, nil
}

// promptIDFromPath maps templates/team/generate.tmpl to team/generate.
func promptIDFromPath(p string) PromptID {
	id := strings.TrimPrefix(p, templateRoot+"/")
	return PromptID(strings.TrimSuffix(id, templateSuffix))
}

func (r *registry) get(id PromptID) (*template.Template, error) {
	tmpl, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return tmpl, nil
}

func (r *registry) source(id PromptID) (string, error) {
	src, ok := r.sources[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return src, nil
}

func (r *registry) ids() []PromptID {
	ids := make([]PromptID, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
