// Package prompts provides centralized language-model prompt management for crewgen.
// All prompts are stored as text/template files and embedded at compile time.
package prompts

import (
	"errors"

	crewerrors "github.com/mrz1836/crewgen/internal/errors"
)

// Package errors for prompt management.
var (
	// ErrTemplateNotFound indicates the requested template doesn't exist.
	ErrTemplateNotFound = crewerrors.ErrPromptNotFound

	// ErrTemplateExecution indicates a failure during template execution.
	ErrTemplateExecution = errors.New("template execution failed")

	// ErrTemplateParse indicates an inline template could not be parsed.
	ErrTemplateParse = errors.New("template parse failed")

	// ErrInvalidData indicates the provided data doesn't match expected type.
	ErrInvalidData = errors.New("invalid data type for template")
)
