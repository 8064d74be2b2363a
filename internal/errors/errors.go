// Package errors provides centralized error handling for crewgen.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrConfigurationMissing indicates that no usable language-model credential
	// could be resolved for a request.
	ErrConfigurationMissing = errors.New("language model credential not configured")

	// ErrUpstreamUnavailable indicates that the language-model service could not
	// be reached or returned a non-success response.
	ErrUpstreamUnavailable = errors.New("language model service unavailable")

	// ErrMalformedGenerationOutput indicates that the language model returned
	// text that could not be decoded into the requested structure.
	ErrMalformedGenerationOutput = errors.New("malformed generation output")

	// ErrEmptyCompletion indicates the language model returned no choices.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrTeamNotFound indicates that a stored team with the given id does not exist.
	ErrTeamNotFound = errors.New("team not found")

	// ErrSessionNotFound indicates that a conversation session does not exist.
	ErrSessionNotFound = errors.New("conversation session not found")

	// ErrInvalidTransition indicates an attempt to make an invalid phase transition.
	ErrInvalidTransition = errors.New("invalid phase transition")

	// ErrGenerationAlreadyTriggered indicates a second generation was requested
	// for a conversation that already owns a team.
	ErrGenerationAlreadyTriggered = errors.New("generation already triggered for this conversation")

	// ErrInvalidWorkflow indicates an unrecognized workflow type.
	ErrInvalidWorkflow = errors.New("invalid workflow type")

	// ErrInvalidTeam indicates a team configuration failed validation.
	ErrInvalidTeam = errors.New("invalid team configuration")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrUnknownTool indicates that a tool identifier is not in the catalog.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrConfigNil indicates that a nil configuration was provided.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidLLM indicates that the LLM configuration section is invalid.
	ErrConfigInvalidLLM = errors.New("invalid llm configuration")

	// ErrConfigInvalidStore indicates that the store configuration section is invalid.
	ErrConfigInvalidStore = errors.New("invalid store configuration")

	// ErrConfigInvalidServer indicates that the server configuration section is invalid.
	ErrConfigInvalidServer = errors.New("invalid server configuration")

	// ErrConfigInvalidConversation indicates that the conversation configuration section is invalid.
	ErrConfigInvalidConversation = errors.New("invalid conversation configuration")

	// ErrUnsupportedStoreDriver indicates an unknown store driver name.
	ErrUnsupportedStoreDriver = errors.New("unsupported store driver")

	// ErrInvalidOutputFormat indicates that an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrPromptNotFound indicates the requested prompt template does not exist.
	ErrPromptNotFound = errors.New("prompt template not found")

	// ErrUserAborted indicates the user aborted an interactive prompt.
	ErrUserAborted = errors.New("user aborted")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	// Commands should silence cobra's error printing when this is returned.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
