package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"
)

// Render executes a prompt template with the provided data and returns the result.
// The data type should match the expected type for the given prompt ID.
//
//	prompt, err := prompts.Render(prompts.PersonaGenerate, prompts.PersonaData{
//	    Role:            "Data Analyst",
//	    TaskDescription: "Analyze customer data",
//	})
func Render(id PromptID, data any) (string, error) {
	if err := ValidateData(id, data); err != nil {
		return "", err
	}

	reg, err := loadRegistry()
	if err != nil {
		return "", err
	}
	tmpl, err := reg.get(id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Join(ErrTemplateExecution, fmt.Errorf("prompt %s: %w", id, err))
	}

	return buf.String(), nil
}

// MustRender executes a prompt template and panics on error.
// Use this only when template execution should never fail (e.g., with known-good data).
func MustRender(id PromptID, data any) string {
	result, err := Render(id, data)
	if err != nil {
		panic(fmt.Sprintf("prompts.MustRender(%s): %v", id, err))
	}
	return result
}

// RenderText parses source as a one-off template and executes it with data.
// Configured prompt overrides go through here so they share the registry's functions.
func RenderText(name, source string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(funcMap()).Parse(source)
	if err != nil {
		return "", errors.Join(ErrTemplateParse, fmt.Errorf("prompt %s: %w", name, err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Join(ErrTemplateExecution, fmt.Errorf("prompt %s: %w", name, err))
	}
	return buf.String(), nil
}

// List returns all registered prompt IDs.
func List() []PromptID {
	reg, err := loadRegistry()
	if err != nil {
		return nil
	}
	return reg.ids()
}

// Exists checks if a prompt ID is registered.
func Exists(id PromptID) bool {
	reg, err := loadRegistry()
	if err != nil {
		return false
	}
	_, err = reg.get(id)
	return err == nil
}

// GetTemplate returns the raw template source for a prompt ID.
func GetTemplate(id PromptID) (string, error) {
	reg, err := loadRegistry()
	if err != nil {
		return "", err
	}
	return reg.source(id)
}

// ValidateData checks if the provided data is valid for the given prompt ID.
func ValidateData(id PromptID, data any) error {
	switch id {
	case TeamGenerate:
		if _, ok := data.(TeamGenerateData); !ok {
			return fmt.Errorf("%w: expected TeamGenerateData, got %T", ErrInvalidData, data)
		}
	case PersonaGenerate:
		if _, ok := data.(PersonaData); !ok {
			return fmt.Errorf("%w: expected PersonaData, got %T", ErrInvalidData, data)
		}
	case ConversationSystem:
		if _, ok := data.(ConversationData); !ok {
			return fmt.Errorf("%w: expected ConversationData, got %T", ErrInvalidData, data)
		}
	case TeamSystem, PersonaSystem:
	}
	return nil
}
